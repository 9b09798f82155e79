package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Repository is the stock ledger. Credit and Debit are the only writers of
// inventory_stock and are expected to run inside the commit transaction of the
// GRN or sale that moves the stock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, sku string) (*models.StockEntry, error)
	LockForUpdate(ctx context.Context, skus []string) (map[string]models.StockEntry, error)
	Credit(ctx context.Context, sku string, qty decimal.Decimal) error
	Debit(ctx context.Context, sku string, qty decimal.Decimal) (bool, error)
	All(ctx context.Context) ([]models.StockEntry, error)
	ItemStock(ctx context.Context) ([]ItemStockRow, error)
}

// ItemStockRow is an item joined with its ledger quantity.
type ItemStockRow struct {
	SKUCode       string          `gorm:"column:sku_code"`
	Brand         *string         `gorm:"column:brand"`
	Category      *string         `gorm:"column:category"`
	Style         *string         `gorm:"column:style"`
	MinStockLevel int             `gorm:"column:min_stock_level"`
	AvailableQty  decimal.Decimal `gorm:"column:available_qty"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock ledger bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, sku string) (*models.StockEntry, error) {
	var row models.StockEntry
	if err := r.db.WithContext(ctx).Where("sku_code = ?", sku).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockForUpdate reads the ledger rows for skus with SELECT ... FOR UPDATE.
// SKUs without a row are absent from the result.
func (r *repository) LockForUpdate(ctx context.Context, skus []string) (map[string]models.StockEntry, error) {
	out := make(map[string]models.StockEntry, len(skus))
	if len(skus) == 0 {
		return out, nil
	}
	var rows []models.StockEntry
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku_code IN ?", skus).
		Order("sku_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SKUCode] = row
	}
	return out, nil
}

// Credit adds qty to the SKU, creating the ledger row on first receipt. The
// new quantity is computed in decimal and written back under the row lock so
// the column never goes through floating point arithmetic.
func (r *repository) Credit(ctx context.Context, sku string, qty decimal.Decimal) error {
	db := r.db.WithContext(ctx)
	seed := models.StockEntry{SKUCode: sku, AvailableQty: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return err
	}
	entry, err := r.lockOne(ctx, sku)
	if err != nil {
		return err
	}
	return r.store(ctx, sku, entry.AvailableQty.Add(qty))
}

// Debit subtracts qty only when enough stock is available. It reports false,
// leaving the row untouched, when the row is missing or short.
func (r *repository) Debit(ctx context.Context, sku string, qty decimal.Decimal) (bool, error) {
	entry, err := r.lockOne(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if entry.AvailableQty.LessThan(qty) {
		return false, nil
	}
	if err := r.store(ctx, sku, entry.AvailableQty.Sub(qty)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) lockOne(ctx context.Context, sku string) (*models.StockEntry, error) {
	var row models.StockEntry
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku_code = ?", sku).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) store(ctx context.Context, sku string, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.StockEntry{}).
		Where("sku_code = ?", sku).
		Updates(map[string]any{
			"available_qty": qty.Round(models.QuantityScale),
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *repository) All(ctx context.Context) ([]models.StockEntry, error) {
	var rows []models.StockEntry
	if err := r.db.WithContext(ctx).Order("sku_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ItemStock lists every item newest first with its available quantity, zero
// when the SKU has never been received.
func (r *repository) ItemStock(ctx context.Context) ([]ItemStockRow, error) {
	var rows []ItemStockRow
	if err := r.db.WithContext(ctx).
		Table("item_master AS i").
		Select("i.sku_code, i.brand, i.category, i.style, i.min_stock_level, COALESCE(s.available_qty, 0) AS available_qty").
		Joins("LEFT JOIN inventory_stock AS s ON s.sku_code = i.sku_code").
		Order("i.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
