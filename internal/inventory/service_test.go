package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

func strPtr(v string) *string { return &v }

func seedItem(t *testing.T, client *db.Client, sku string, min int) {
	t.Helper()
	item := &models.Item{SKUCode: sku, Brand: strPtr("Acme"), Category: strPtr("Shirts"), Status: enums.ItemStatusDraft, MinStockLevel: min}
	require.NoError(t, client.DB().Create(item).Error)
}

func newTestService(t *testing.T, inclusive bool) (Service, Repository, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, Options{LowStockInclusive: inclusive})
	require.NoError(t, err)
	return svc, repo, client
}

func TestInventoryViewJoinsLedger(t *testing.T) {
	svc, repo, client := newTestService(t, true)
	ctx := context.Background()

	seedItem(t, client, "SKU-1", 5)
	seedItem(t, client, "SKU-2", 10)
	require.NoError(t, repo.Credit(ctx, "SKU-1", dec("8")))

	view, err := svc.InventoryView(ctx)
	require.NoError(t, err)
	require.Len(t, view, 2)

	assert.Equal(t, "SKU-2", view[0].SKUCode, "newest item first")
	assert.True(t, view[0].AvailableQty.IsZero(), "unreceived SKU reads as zero")
	assert.Equal(t, 10, view[0].MinStockLevel)
	assert.Equal(t, "SKU-1", view[1].SKUCode)
	assert.True(t, view[1].AvailableQty.Equal(dec("8")), view[1].AvailableQty.String())
	require.NotNil(t, view[1].Brand)
	assert.Equal(t, "Acme", *view[1].Brand)
}

func TestLowStockInclusive(t *testing.T) {
	svc, repo, client := newTestService(t, true)
	ctx := context.Background()

	seedItem(t, client, "AT-MIN", 5)
	seedItem(t, client, "ABOVE", 5)
	seedItem(t, client, "NEVER-RECEIVED", 0)
	require.NoError(t, repo.Credit(ctx, "AT-MIN", dec("5")))
	require.NoError(t, repo.Credit(ctx, "ABOVE", dec("6")))

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)

	skus := make([]string, 0, len(low))
	for _, row := range low {
		skus = append(skus, row.SKUCode)
	}
	assert.ElementsMatch(t, []string{"AT-MIN", "NEVER-RECEIVED"}, skus)
}

func TestLowStockStrict(t *testing.T) {
	svc, repo, client := newTestService(t, false)
	ctx := context.Background()

	seedItem(t, client, "AT-MIN", 5)
	seedItem(t, client, "BELOW", 5)
	require.NoError(t, repo.Credit(ctx, "AT-MIN", dec("5")))
	require.NoError(t, repo.Credit(ctx, "BELOW", dec("4")))

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "BELOW", low[0].SKUCode)
	assert.True(t, low[0].AvailableQty.Equal(dec("4")))
	assert.Equal(t, 5, low[0].MinStockLevel)
}

func TestStockLevelsIncludesOrphanSKUs(t *testing.T) {
	svc, repo, client := newTestService(t, true)
	ctx := context.Background()

	seedItem(t, client, "SKU-1", 5)
	require.NoError(t, repo.Credit(ctx, "SKU-1", dec("3")))
	require.NoError(t, repo.Credit(ctx, "LOOSE", dec("1")))

	levels, err := svc.StockLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "LOOSE", levels[0].SKUCode)
	assert.Equal(t, "SKU-1", levels[1].SKUCode)
}

func TestIsLow(t *testing.T) {
	cases := []struct {
		name      string
		available string
		min       int
		inclusive bool
		want      bool
	}{
		{"below", "4", 5, true, true},
		{"equal inclusive", "5", 5, true, true},
		{"equal strict", "5", 5, false, false},
		{"above", "5.5", 5, true, false},
		{"fractional below", "4.999", 5, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLow(dec(tc.available), tc.min, tc.inclusive))
		})
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, Options{})
	require.Error(t, err)
}
