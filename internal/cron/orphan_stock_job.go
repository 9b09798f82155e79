package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
)

type stockAuditReader interface {
	InventoryView(ctx context.Context) ([]inventory.InventoryItemDTO, error)
	StockLevels(ctx context.Context) ([]inventory.StockLevelDTO, error)
}

type OrphanStockAuditJobParams struct {
	Logger    *logger.Logger
	Inventory stockAuditReader
	Metrics   *metrics.JobMetrics
}

// NewOrphanStockAuditJob reports stock rows for SKUs that have no item
// master record. Items reference SKUs softly, so deleting an item leaves its
// stock behind.
func NewOrphanStockAuditJob(params OrphanStockAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &orphanStockAuditJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		metrics:   params.Metrics,
	}, nil
}

type orphanStockAuditJob struct {
	logg      *logger.Logger
	inventory stockAuditReader
	metrics   *metrics.JobMetrics
}

func (j *orphanStockAuditJob) Name() string { return "orphan-stock-audit" }

func (j *orphanStockAuditJob) Run(ctx context.Context) error {
	items, itemsErr := j.inventory.InventoryView(ctx)
	levels, levelsErr := j.inventory.StockLevels(ctx)
	if err := multierr.Combine(itemsErr, levelsErr); err != nil {
		return fmt.Errorf("load stock audit inputs: %w", err)
	}

	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.SKUCode] = struct{}{}
	}

	orphans := 0
	for _, level := range levels {
		if _, ok := known[level.SKUCode]; ok {
			continue
		}
		orphans++
		rowCtx := j.logg.WithField(j.logg.WithSKU(ctx, level.SKUCode), "available_qty", level.AvailableQty.String())
		j.logg.Warn(rowCtx, "inventory.orphan_stock")
	}
	j.metrics.SetOrphanStockRows(orphans)
	return nil
}
