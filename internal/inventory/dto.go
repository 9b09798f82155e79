package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

type InventoryItemDTO struct {
	SKUCode       string          `json:"sku_code"`
	Brand         *string         `json:"brand"`
	Category      *string         `json:"category"`
	Style         *string         `json:"style"`
	MinStockLevel int             `json:"min_stock_level"`
	AvailableQty  decimal.Decimal `json:"available_qty"`
}

type LowStockDTO struct {
	SKUCode       string          `json:"sku_code"`
	AvailableQty  decimal.Decimal `json:"available_qty"`
	MinStockLevel int             `json:"min_stock_level"`
}

// StockLevelDTO is a raw ledger row.
type StockLevelDTO struct {
	SKUCode      string          `json:"sku_code"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func fromRow(row ItemStockRow) InventoryItemDTO {
	return InventoryItemDTO{
		SKUCode:       row.SKUCode,
		Brand:         row.Brand,
		Category:      row.Category,
		Style:         row.Style,
		MinStockLevel: row.MinStockLevel,
		AvailableQty:  row.AvailableQty,
	}
}

func fromEntry(entry models.StockEntry) StockLevelDTO {
	return StockLevelDTO{
		SKUCode:      entry.SKUCode,
		AvailableQty: entry.AvailableQty,
		UpdatedAt:    entry.UpdatedAt,
	}
}
