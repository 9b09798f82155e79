package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
)

type lowStockReader interface {
	LowStock(ctx context.Context) ([]inventory.LowStockDTO, error)
}

type LowStockScanJobParams struct {
	Logger    *logger.Logger
	Inventory lowStockReader
	Metrics   *metrics.JobMetrics
}

// NewLowStockScanJob reports every item at or below its minimum level.
func NewLowStockScanJob(params LowStockScanJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &lowStockScanJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		metrics:   params.Metrics,
	}, nil
}

type lowStockScanJob struct {
	logg      *logger.Logger
	inventory lowStockReader
	metrics   *metrics.JobMetrics
}

func (j *lowStockScanJob) Name() string { return "low-stock-scan" }

func (j *lowStockScanJob) Run(ctx context.Context) error {
	rows, err := j.inventory.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("load low stock: %w", err)
	}
	for _, row := range rows {
		rowCtx := j.logg.WithFields(j.logg.WithSKU(ctx, row.SKUCode), map[string]any{
			"available_qty":   row.AvailableQty.String(),
			"min_stock_level": row.MinStockLevel,
		})
		j.logg.Warn(rowCtx, "inventory.low_stock")
	}
	j.metrics.SetLowStockItems(len(rows))
	j.logg.Info(j.logg.WithField(ctx, "low_stock_items", len(rows)), "low stock scan finished")
	return nil
}
