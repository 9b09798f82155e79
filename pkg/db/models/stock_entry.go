package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry tracks the available quantity per SKU. Rows are created lazily on
// the first GRN credit and only GRN and sale commits mutate them.
type StockEntry struct {
	SKUCode      string          `gorm:"column:sku_code;primaryKey"`
	AvailableQty decimal.Decimal `gorm:"column:available_qty;type:numeric(14,3);not null;default:0"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockEntry) TableName() string { return "inventory_stock" }
