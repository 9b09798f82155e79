package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/retailflow-backend/api/controllers"
	"github.com/angelmondragon/retailflow-backend/api/middleware"
	"github.com/angelmondragon/retailflow-backend/internal/grn"
	"github.com/angelmondragon/retailflow-backend/internal/hsn"
	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/internal/items"
	"github.com/angelmondragon/retailflow-backend/internal/purchaseorders"
	"github.com/angelmondragon/retailflow-backend/internal/sales"
	"github.com/angelmondragon/retailflow-backend/internal/vendors"
	"github.com/angelmondragon/retailflow-backend/pkg/config"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/retailflow-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. DBPinger is required;
// RedisPinger and IdempotencyStore stay nil when redis is disabled.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         controllers.Pinger
	RedisPinger      controllers.Pinger
	IdempotencyStore pkgredis.IdempotencyStore
	HTTPMetrics      *metrics.HTTPMetrics
	Gatherer         prometheus.Gatherer

	HSN            hsn.Service
	Items          items.Service
	Vendors        vendors.Service
	PurchaseOrders purchaseorders.Service
	GRN            grn.Service
	Sales          sales.Service
	Inventory      inventory.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DBPinger, d.RedisPinger))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(d.IdempotencyStore, logg))

		r.Get("/ping", controllers.Ping())

		r.Route("/hsn", func(r chi.Router) {
			r.Get("/", controllers.HSNList(d.HSN, logg))
			r.Post("/", controllers.HSNCreate(d.HSN, logg))
			r.Put("/{id}", controllers.HSNUpdate(d.HSN, logg))
			r.Delete("/{id}", controllers.HSNDelete(d.HSN, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemsList(d.Items, logg))
			r.Post("/", controllers.ItemsCreate(d.Items, logg))
			r.Put("/{id}", controllers.ItemsUpdate(d.Items, logg))
			r.Delete("/{id}", controllers.ItemsDelete(d.Items, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorsList(d.Vendors, logg))
			r.Post("/", controllers.VendorsCreate(d.Vendors, logg))
			r.Put("/{id}", controllers.VendorsUpdate(d.Vendors, logg))
			r.Delete("/{id}", controllers.VendorsDelete(d.Vendors, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", controllers.PurchaseOrdersList(d.PurchaseOrders, logg))
			r.Post("/", controllers.PurchaseOrdersCreate(d.PurchaseOrders, logg))
			r.Get("/{id}", controllers.PurchaseOrdersGet(d.PurchaseOrders, logg))
		})

		r.Route("/grn", func(r chi.Router) {
			r.Get("/", controllers.GRNList(d.GRN, logg))
			r.Post("/", controllers.GRNCreate(d.GRN, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(d.Sales, logg))
			r.Post("/", controllers.SalesCreate(d.Sales, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryView(d.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(d.Inventory, logg))
			r.Get("/stock", controllers.InventoryStockLevels(d.Inventory, logg))
		})
	})

	return r
}
