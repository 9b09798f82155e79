package cron

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
)

type fakeInventory struct {
	low       []inventory.LowStockDTO
	items     []inventory.InventoryItemDTO
	levels    []inventory.StockLevelDTO
	levelsErr error
}

func (f *fakeInventory) LowStock(context.Context) ([]inventory.LowStockDTO, error) {
	return f.low, nil
}

func (f *fakeInventory) InventoryView(context.Context) ([]inventory.InventoryItemDTO, error) {
	return f.items, nil
}

func (f *fakeInventory) StockLevels(context.Context) ([]inventory.StockLevelDTO, error) {
	return f.levels, f.levelsErr
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func TestLowStockScanJobLogsAndCounts(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: buf})
	reg := prometheus.NewRegistry()
	m := metrics.NewJobMetrics(reg)

	job, err := NewLowStockScanJob(LowStockScanJobParams{
		Logger: logg,
		Inventory: &fakeInventory{low: []inventory.LowStockDTO{
			{SKUCode: "SKU-1", AvailableQty: decimal.NewFromInt(4), MinStockLevel: 5},
			{SKUCode: "SKU-2", AvailableQty: decimal.Zero, MinStockLevel: 10},
		}},
		Metrics: m,
	})
	require.NoError(t, err)
	assert.Equal(t, "low-stock-scan", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, float64(2), gaugeValue(t, reg, "retailflow_low_stock_items"))
	assert.Contains(t, buf.String(), `"sku_code":"SKU-1"`)
	assert.Contains(t, buf.String(), "inventory.low_stock")
}

func TestOrphanStockAuditJobFlagsUnknownSKUs(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: buf})
	reg := prometheus.NewRegistry()
	m := metrics.NewJobMetrics(reg)

	job, err := NewOrphanStockAuditJob(OrphanStockAuditJobParams{
		Logger: logg,
		Inventory: &fakeInventory{
			items: []inventory.InventoryItemDTO{{SKUCode: "SKU-1"}},
			levels: []inventory.StockLevelDTO{
				{SKUCode: "SKU-1", AvailableQty: decimal.NewFromInt(3)},
				{SKUCode: "GONE-7", AvailableQty: decimal.NewFromInt(9)},
			},
		},
		Metrics: m,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, float64(1), gaugeValue(t, reg, "retailflow_orphan_stock_rows"))
	assert.Contains(t, buf.String(), `"sku_code":"GONE-7"`)
	assert.NotContains(t, buf.String(), `"sku_code":"SKU-1"`)
}

func TestOrphanStockAuditJobReturnsReadErrors(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: &bytes.Buffer{}})
	job, err := NewOrphanStockAuditJob(OrphanStockAuditJobParams{
		Logger:    logg,
		Inventory: &fakeInventory{levelsErr: errors.New("db down")},
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestJobConstructorsRequireDependencies(t *testing.T) {
	_, err := NewLowStockScanJob(LowStockScanJobParams{})
	assert.Error(t, err)
	_, err = NewOrphanStockAuditJob(OrphanStockAuditJobParams{Logger: logger.New(logger.Options{ServiceName: "x", Output: &bytes.Buffer{}})})
	assert.Error(t, err)
}
