package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailflow-backend/internal/grn"
	"github.com/angelmondragon/retailflow-backend/internal/hsn"
	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/internal/items"
	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/internal/purchaseorders"
	"github.com/angelmondragon/retailflow-backend/internal/sales"
	"github.com/angelmondragon/retailflow-backend/internal/vendors"
	"github.com/angelmondragon/retailflow-backend/pkg/config"
	"github.com/angelmondragon/retailflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
)

type memoryStore struct {
	data map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	store   *memoryStore
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	decimal.MarshalJSONWithoutQuotes = true
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = false })

	client := dbtest.Open(t)
	conn := client.DB()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	reg := prometheus.NewRegistry()
	docMetrics := metrics.NewDocumentMetrics(reg)
	seq := numbering.NewSequencer()

	hsnSvc, err := hsn.NewService(hsn.NewRepository(conn))
	require.NoError(t, err)
	itemSvc, err := items.NewService(items.NewRepository(conn))
	require.NoError(t, err)
	vendorRepo := vendors.NewRepository(conn)
	vendorSvc, err := vendors.NewService(client, vendorRepo, seq)
	require.NoError(t, err)
	poRepo := purchaseorders.NewRepository(conn)
	poSvc, err := purchaseorders.NewService(client, poRepo, vendorRepo, logg, docMetrics)
	require.NoError(t, err)
	ledger := inventory.NewRepository(conn)
	grnSvc, err := grn.NewService(grn.Deps{
		Tx: client, Repo: grn.NewRepository(conn), PurchaseOrders: poRepo, Ledger: ledger,
		Sequencer: seq, Logger: logg, Metrics: docMetrics,
	})
	require.NoError(t, err)
	saleSvc, err := sales.NewService(sales.Deps{
		Tx: client, Repo: sales.NewRepository(conn), Ledger: ledger,
		Sequencer: seq, Logger: logg, Metrics: docMetrics,
	})
	require.NoError(t, err)
	invSvc, err := inventory.NewService(ledger, inventory.Options{LowStockInclusive: true})
	require.NoError(t, err)

	store := &memoryStore{data: map[string]string{}}
	deps := Deps{
		Config:           &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:           logg,
		DBPinger:         client,
		IdempotencyStore: store,
		HTTPMetrics:      metrics.NewHTTPMetrics(reg),
		Gatherer:         reg,
		HSN:              hsnSvc,
		Items:            itemSvc,
		Vendors:          vendorSvc,
		PurchaseOrders:   poSvc,
		GRN:              grnSvc,
		Sales:            saleSvc,
		Inventory:        invSvc,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &testServer{handler: NewRouter(deps), store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestPingAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := srv.do(t, http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, status)
	ping := decodeData[map[string]string](t, env)
	assert.Equal(t, "ok", ping["status"])
	assert.Equal(t, "RetailFlow backend is alive.", ping["message"])

	status, _ = srv.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = srv.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, status)
	ready := decodeData[struct {
		Checks map[string]string `json:"checks"`
	}](t, env)
	assert.Equal(t, "disabled", ready.Checks["redis"])
}

func TestReadinessReportsDependencyFailure(t *testing.T) {
	srv := newTestServer(t, func(d *Deps) { d.RedisPinger = failingPinger{} })

	status, env := srv.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
}

func TestMasterDataRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	status, env := srv.do(t, http.MethodPost, "/api/hsn", map[string]any{"hsn_code": "6109", "cgst_rate": 2.5, "sgst_rate": 2.5})
	require.Equal(t, http.StatusOK, status)
	created := decodeData[hsn.HSNDTO](t, env)

	status, env = srv.do(t, http.MethodPost, "/api/hsn", map[string]any{"hsn_code": "6109"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "HSN code already exists", env.Error.Message)

	status, _ = srv.do(t, http.MethodPost, "/api/hsn", map[string]any{"description": "missing code"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = srv.do(t, http.MethodPost, "/api/hsn", map[string]any{"hsn_code": "6110", "igst_rate": -5})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	status, _ = srv.do(t, http.MethodPost, "/api/items", map[string]any{"sku_code": "SKU-1,SKU-2"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/hsn/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, status)
	ack := decodeData[map[string]bool](t, env)
	assert.True(t, ack["ok"])

	status, env = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/hsn/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "HSN not found", env.Error.Message)

	status, _ = srv.do(t, http.MethodPut, "/api/items/abc", map[string]any{"sku_code": "X"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(t, http.MethodPost, "/api/items", map[string]any{"sku_code": "SKU-9", "min_stock_level": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	for _, want := range []string{"V0001", "V0002"} {
		status, env = srv.do(t, http.MethodPost, "/api/vendors", map[string]any{"vendor_name": "Vendor " + want})
		require.Equal(t, http.StatusOK, status)
		vendor := decodeData[vendors.VendorDTO](t, env)
		assert.Equal(t, want, vendor.VendorCode)
	}

	status, env = srv.do(t, http.MethodGet, "/api/vendors", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[[]vendors.VendorDTO](t, env), 2)
}

func TestInventoryFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, http.MethodPost, "/api/items", map[string]any{"sku_code": "SKU-1", "min_stock_level": 5})
	require.Equal(t, http.StatusOK, status)
	status, env := srv.do(t, http.MethodPost, "/api/vendors", map[string]any{"vendor_name": "Acme Textiles"})
	require.Equal(t, http.StatusOK, status)
	vendor := decodeData[vendors.VendorDTO](t, env)

	status, env = srv.do(t, http.MethodPost, "/api/purchase-orders", map[string]any{
		"po_date":          "2026-01-05",
		"expiry_date":      "2026-02-05",
		"vendor_id":        vendor.ID,
		"retailer_name":    "RetailFlow Store",
		"retailer_address": "1 Market Road",
		"retailer_gstin":   "29ABCDE1234F1Z5",
		"lines": []map[string]any{{
			"sku_code": "SKU-1", "qty": 20, "rate": 100,
			"line_subtotal": 2000, "cgst_amount": 50, "sgst_amount": 50, "line_total": 2100,
		}},
	})
	require.Equal(t, http.StatusOK, status)
	po := decodeData[purchaseorders.PurchaseOrderDTO](t, env)
	assert.True(t, po.GrandTotal.Equal(decimal.NewFromInt(2100)))
	require.NotNil(t, po.VendorCode)
	assert.Equal(t, "V0001", *po.VendorCode)

	status, env = srv.do(t, http.MethodGet, fmt.Sprintf("/api/purchase-orders/%d", po.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[purchaseorders.PurchaseOrderDTO](t, env).Lines, 1)

	status, env = srv.do(t, http.MethodPost, "/api/grn", map[string]any{
		"po_id": 999, "received_date": "2026-01-10",
		"lines": []map[string]any{{"sku_code": "SKU-1", "received_qty": 1, "accepted_qty": 1}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PO not found", env.Error.Message)

	status, env = srv.do(t, http.MethodPost, "/api/grn", map[string]any{
		"po_id": po.ID, "received_date": "2026-01-10",
		"lines": []map[string]any{{"sku_code": "SKU-1", "received_qty": 20, "accepted_qty": 18, "rejected_qty": 2}},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "GRN0001", decodeData[grn.GRNDTO](t, env).GRNNumber)

	sale := func(qty int) map[string]any {
		return map[string]any{
			"sale_date": "2026-01-11",
			"lines":     []map[string]any{{"sku_code": "SKU-1", "qty": qty, "rate": 150}},
		}
	}

	status, env = srv.do(t, http.MethodPost, "/api/sales", sale(20))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient stock for SKU-1. Available=18, Sold=20", env.Error.Message)

	status, env = srv.do(t, http.MethodPost, "/api/sales", sale(10))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "BILL-0001", decodeData[sales.SaleDTO](t, env).BillNumber)

	status, env = srv.do(t, http.MethodGet, "/api/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeData[[]inventory.LowStockDTO](t, env))

	status, _ = srv.do(t, http.MethodPost, "/api/sales", sale(4))
	require.Equal(t, http.StatusOK, status)

	status, env = srv.do(t, http.MethodGet, "/api/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, status)
	low := decodeData[[]inventory.LowStockDTO](t, env)
	require.Len(t, low, 1)
	assert.True(t, low[0].AvailableQty.Equal(decimal.NewFromInt(4)))

	status, env = srv.do(t, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, status)
	view := decodeData[[]inventory.InventoryItemDTO](t, env)
	require.Len(t, view, 1)
	assert.Equal(t, 5, view[0].MinStockLevel)

	status, env = srv.do(t, http.MethodGet, "/api/inventory/stock", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[[]inventory.StockLevelDTO](t, env), 1)

	status, env = srv.do(t, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, status)
	listed := decodeData[[]sales.SaleDTO](t, env)
	require.Len(t, listed, 2)
	assert.Equal(t, "BILL-0002", listed[0].BillNumber)
}

func TestSaleReplayWithIdempotencyKey(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, http.MethodPost, "/api/items", map[string]any{"sku_code": "SKU-1"})
	require.Equal(t, http.StatusOK, status)
	status, env := srv.do(t, http.MethodPost, "/api/vendors", map[string]any{"vendor_name": "Acme"})
	require.Equal(t, http.StatusOK, status)
	vendor := decodeData[vendors.VendorDTO](t, env)
	status, env = srv.do(t, http.MethodPost, "/api/purchase-orders", map[string]any{
		"po_date": "2026-01-05", "expiry_date": "2026-02-05", "vendor_id": vendor.ID,
		"retailer_name": "R", "retailer_address": "A", "retailer_gstin": "G",
		"lines": []map[string]any{{"sku_code": "SKU-1", "qty": 5, "rate": 10, "line_subtotal": 50, "line_total": 50}},
	})
	require.Equal(t, http.StatusOK, status)
	po := decodeData[purchaseorders.PurchaseOrderDTO](t, env)
	status, _ = srv.do(t, http.MethodPost, "/api/grn", map[string]any{
		"po_id": po.ID, "received_date": "2026-01-06",
		"lines": []map[string]any{{"sku_code": "SKU-1", "received_qty": 5, "accepted_qty": 5}},
	})
	require.Equal(t, http.StatusOK, status)

	body := map[string]any{
		"sale_date": "2026-01-07",
		"lines":     []map[string]any{{"sku_code": "SKU-1", "qty": 3}},
	}
	status, first := srv.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusOK, status)
	status, replay := srv.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, string(first.Data), string(replay.Data))

	status, env = srv.do(t, http.MethodGet, "/api/inventory/stock", nil)
	require.Equal(t, http.StatusOK, status)
	levels := decodeData[[]inventory.StockLevelDTO](t, env)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].AvailableQty.Equal(decimal.NewFromInt(2)), "replay must not debit twice")

	body["lines"] = []map[string]any{{"sku_code": "SKU-1", "qty": 1}}
	status, env = srv.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "IDEMPOTENCY_KEY_REUSED", env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `retailflow_http_request_duration_seconds_count{method="GET",route="/api/ping",status="200"} 1`)
}
