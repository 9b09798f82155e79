package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/retailflow-backend/api/controllers"
	"github.com/angelmondragon/retailflow-backend/api/routes"
	"github.com/angelmondragon/retailflow-backend/internal/grn"
	"github.com/angelmondragon/retailflow-backend/internal/hsn"
	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/internal/items"
	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/internal/purchaseorders"
	"github.com/angelmondragon/retailflow-backend/internal/sales"
	"github.com/angelmondragon/retailflow-backend/internal/vendors"
	"github.com/angelmondragon/retailflow-backend/pkg/config"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/instance"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	"github.com/angelmondragon/retailflow-backend/pkg/migrate"
	pkgredis "github.com/angelmondragon/retailflow-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Quantities and amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = db.DriverSQLite
		cfg.DB.DSN = cfg.FeatureFlags.SQLitePath
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *pkgredis.Client
		redisPinger controllers.Pinger
		idemStore   pkgredis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisPinger = redisClient
		idemStore = redisClient
	} else {
		logg.Info(context.Background(), "redis not configured; idempotency keys are ignored")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	docMetrics := metrics.NewDocumentMetrics(registry)

	deps, err := buildServices(cfg, logg, dbClient, docMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}
	deps.Config = cfg
	deps.Logger = logg
	deps.DBPinger = dbClient
	deps.RedisPinger = redisPinger
	deps.IdempotencyStore = idemStore
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.Gatherer = registry

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"sqlite": cfg.FeatureFlags.UseSQLite,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	if err := closeResources(dbClient, redisClient); err != nil {
		logg.Error(ctx, "error closing resources", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func buildServices(cfg *config.Config, logg *logger.Logger, client *db.Client, docMetrics *metrics.DocumentMetrics) (routes.Deps, error) {
	conn := client.DB()
	seq := numbering.NewSequencer()

	hsnSvc, err := hsn.NewService(hsn.NewRepository(conn))
	if err != nil {
		return routes.Deps{}, err
	}
	itemSvc, err := items.NewService(items.NewRepository(conn))
	if err != nil {
		return routes.Deps{}, err
	}
	vendorRepo := vendors.NewRepository(conn)
	vendorSvc, err := vendors.NewService(client, vendorRepo, seq)
	if err != nil {
		return routes.Deps{}, err
	}
	poRepo := purchaseorders.NewRepository(conn)
	poSvc, err := purchaseorders.NewService(client, poRepo, vendorRepo, logg, docMetrics)
	if err != nil {
		return routes.Deps{}, err
	}
	ledger := inventory.NewRepository(conn)
	grnSvc, err := grn.NewService(grn.Deps{
		Tx:             client,
		Repo:           grn.NewRepository(conn),
		PurchaseOrders: poRepo,
		Ledger:         ledger,
		Sequencer:      seq,
		Logger:         logg,
		Metrics:        docMetrics,
	})
	if err != nil {
		return routes.Deps{}, err
	}
	saleSvc, err := sales.NewService(sales.Deps{
		Tx:        client,
		Repo:      sales.NewRepository(conn),
		Ledger:    ledger,
		Sequencer: seq,
		Logger:    logg,
		Metrics:   docMetrics,
	})
	if err != nil {
		return routes.Deps{}, err
	}
	invSvc, err := inventory.NewService(ledger, inventory.Options{LowStockInclusive: cfg.Inventory.LowStockInclusive})
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		HSN:            hsnSvc,
		Items:          itemSvc,
		Vendors:        vendorSvc,
		PurchaseOrders: poSvc,
		GRN:            grnSvc,
		Sales:          saleSvc,
		Inventory:      invSvc,
	}, nil
}

func closeResources(dbClient *db.Client, redisClient *pkgredis.Client) error {
	var err error
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	return multierr.Append(err, dbClient.Close())
}
