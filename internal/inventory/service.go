package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
)

// Options tunes the low-stock comparison.
type Options struct {
	// LowStockInclusive flags items sitting exactly at their threshold.
	LowStockInclusive bool
}

// Service exposes read-only stock views.
type Service interface {
	InventoryView(ctx context.Context) ([]InventoryItemDTO, error)
	LowStock(ctx context.Context) ([]LowStockDTO, error)
	StockLevels(ctx context.Context) ([]StockLevelDTO, error)
}

type service struct {
	repo Repository
	opts Options
}

func NewService(repo Repository, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo, opts: opts}, nil
}

func (s *service) InventoryView(ctx context.Context) ([]InventoryItemDTO, error) {
	rows, err := s.repo.ItemStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	out := make([]InventoryItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (s *service) LowStock(ctx context.Context) ([]LowStockDTO, error) {
	rows, err := s.repo.ItemStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	out := make([]LowStockDTO, 0)
	for _, row := range rows {
		if !IsLow(row.AvailableQty, row.MinStockLevel, s.opts.LowStockInclusive) {
			continue
		}
		out = append(out, LowStockDTO{
			SKUCode:       row.SKUCode,
			AvailableQty:  row.AvailableQty,
			MinStockLevel: row.MinStockLevel,
		})
	}
	return out, nil
}

func (s *service) StockLevels(ctx context.Context) ([]StockLevelDTO, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock levels")
	}
	out := make([]StockLevelDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromEntry(row))
	}
	return out, nil
}

// IsLow reports whether available is at or below min (strictly below when
// inclusive is false).
func IsLow(available decimal.Decimal, min int, inclusive bool) bool {
	threshold := decimal.NewFromInt(int64(min))
	if inclusive {
		return available.LessThanOrEqual(threshold)
	}
	return available.LessThan(threshold)
}
