package purchaseorders

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailflow-backend/internal/vendors"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(client, NewRepository(client.DB()), vendors.NewRepository(client.DB()), logg, nil)
	require.NoError(t, err)
	return svc, client
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleLine(sku, subtotal, cgst, sgst, total string) LineInput {
	return LineInput{
		SKUCode:      sku,
		Qty:          dec("10"),
		Rate:         dec("100"),
		CGSTRate:     dec("2.5"),
		SGSTRate:     dec("2.5"),
		LineSubtotal: dec(subtotal),
		CGSTAmount:   dec(cgst),
		SGSTAmount:   dec(sgst),
		IGSTAmount:   decimal.Zero,
		LineTotal:    dec(total),
	}
}

func sampleInput(vendorID uint, lines ...LineInput) CreateInput {
	return CreateInput{
		PODate:          "2024-04-01",
		ExpiryDate:      "2024-04-30",
		TaxMode:         enums.TaxModeCGSTSGST,
		VendorID:        vendorID,
		RetailerName:    "RetailFlow Store",
		RetailerAddress: "12 Market Road",
		RetailerGSTIN:   "29ABCDE1234F1Z5",
		Lines:           lines,
	}
}

func TestCreateAggregatesLineAmounts(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	vendor := &models.Vendor{VendorCode: "V0001", VendorName: "Acme Textiles", Status: enums.VendorStatusActive}
	require.NoError(t, client.DB().Create(vendor).Error)

	po, err := svc.Create(ctx, sampleInput(vendor.ID,
		sampleLine(" SKU-1 ", "1000", "25", "25", "1050"),
		sampleLine("SKU-2", "500.50", "12.51", "12.51", "525.52"),
	))
	require.NoError(t, err)

	assert.NotZero(t, po.ID)
	assert.True(t, po.Subtotal.Equal(dec("1500.50")), po.Subtotal.String())
	assert.True(t, po.CGSTTotal.Equal(dec("37.51")), po.CGSTTotal.String())
	assert.True(t, po.SGSTTotal.Equal(dec("37.51")), po.SGSTTotal.String())
	assert.True(t, po.IGSTTotal.IsZero())
	assert.True(t, po.GrandTotal.Equal(dec("1575.52")), po.GrandTotal.String())
	require.Len(t, po.Lines, 2)
	assert.Equal(t, "SKU-1", po.Lines[0].SKUCode)
	require.NotNil(t, po.VendorCode)
	assert.Equal(t, "V0001", *po.VendorCode)
	assert.Equal(t, "Acme Textiles", *po.VendorName)

	stored, err := svc.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.True(t, stored.GrandTotal.Equal(dec("1575.52")), stored.GrandTotal.String())
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, "SKU-2", stored.Lines[1].SKUCode)
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc, client := newTestService(t)

	_, err := svc.Create(context.Background(), sampleInput(1))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "PO must have at least one line", pkgerrors.As(err).Message())

	var count int64
	require.NoError(t, client.DB().Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsUnknownTaxMode(t *testing.T) {
	svc, _ := newTestService(t)

	input := sampleInput(1, sampleLine("SKU-1", "100", "0", "0", "100"))
	input.TaxMode = "VAT"
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListNewestFirstWithSoftVendorLookup(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	vendor := &models.Vendor{VendorCode: "V0001", VendorName: "Acme", Status: enums.VendorStatusActive}
	require.NoError(t, client.DB().Create(vendor).Error)

	first, err := svc.Create(ctx, sampleInput(vendor.ID, sampleLine("SKU-1", "100", "2.5", "2.5", "105")))
	require.NoError(t, err)
	second, err := svc.Create(ctx, sampleInput(999, sampleLine("SKU-2", "200", "5", "5", "210")))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Nil(t, list[0].VendorCode, "missing vendor leaves decoration empty")
	require.NotNil(t, list[1].VendorCode)
	assert.Equal(t, "V0001", *list[1].VendorCode)

	again, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, again[0].ID)
	assert.Equal(t, list[1].ID, again[1].ID)
}

func TestGetMissingPurchaseOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "PO not found", pkgerrors.As(err).Message())
}

func TestAggregate(t *testing.T) {
	totals := Aggregate([]LineInput{
		{LineSubtotal: dec("10"), IGSTAmount: dec("1.8"), LineTotal: dec("11.8")},
		{LineSubtotal: dec("5"), IGSTAmount: dec("0.9"), LineTotal: dec("5.9")},
	})
	assert.True(t, totals.Subtotal.Equal(dec("15")))
	assert.True(t, totals.IGSTTotal.Equal(dec("2.7")))
	assert.True(t, totals.GrandTotal.Equal(dec("17.7")))
	assert.True(t, totals.CGSTTotal.IsZero())

	empty := Aggregate(nil)
	assert.True(t, empty.GrandTotal.IsZero())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestCreateRejectsAmountsBeyondColumnScale(t *testing.T) {
	svc, client := newTestService(t)

	_, err := svc.Create(context.Background(), sampleInput(1,
		sampleLine("SKU-1", "0.005", "0", "0", "0.005"),
		sampleLine("SKU-2", "0.005", "0", "0", "0.005"),
	))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "lines[0].line_subtotal allows at most 2 decimal places", pkgerrors.As(err).Message())

	ln := sampleLine("SKU-1", "1000", "25", "25", "1050")
	ln.Qty = dec("1.0005")
	_, err = svc.Create(context.Background(), sampleInput(1, ln))
	require.Error(t, err)
	assert.Equal(t, "lines[0].qty allows at most 3 decimal places", pkgerrors.As(err).Message())

	var count int64
	require.NoError(t, client.DB().Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}
