package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/retailflow-backend/internal/cron"
	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/pkg/config"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/instance"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	"github.com/angelmondragon/retailflow-backend/pkg/migrate"
	pkgredis "github.com/angelmondragon/retailflow-backend/pkg/redis"
)

const lockKeyFormat = "rf:stock-monitor:lock:%s"

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for /metrics, e.g. :9102")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "stock-monitor"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stock-monitor",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

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
		lock        cron.Lock = &cron.LocalLock{}
	)
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisLock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Monitor.LockTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create stock monitor lock", err)
			os.Exit(1)
		}
		lock = redisLock
	}

	registry := prometheus.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(registry)

	invSvc, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), inventory.Options{
		LowStockInclusive: cfg.Inventory.LowStockInclusive,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	lowStockJob, err := cron.NewLowStockScanJob(cron.LowStockScanJobParams{Logger: logg, Inventory: invSvc, Metrics: jobMetrics})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}
	orphanJob, err := cron.NewOrphanStockAuditJob(cron.OrphanStockAuditJobParams{Logger: logg, Inventory: invSvc, Metrics: jobMetrics})
	if err != nil {
		logg.Error(context.Background(), "failed to create orphan stock job", err)
		os.Exit(1)
	}

	jobRegistry := cron.NewRegistry()
	jobRegistry.Register(lowStockJob, cron.Schedule{Timeout: cfg.Monitor.JobTimeout})
	jobRegistry.Register(orphanJob, cron.Schedule{Every: cfg.Monitor.AuditEvery, Timeout: cfg.Monitor.JobTimeout})

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobRegistry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Monitor.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stock monitor", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Monitor.Interval.String(),
	})

	var metricsServer *http.Server
	if *metricsAddr != "" && !*once {
		metricsServer = &http.Server{
			Addr:              *metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
	}

	exitCode := 0
	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "stock monitor run failed", err)
			exitCode = 1
		}
	} else {
		logg.Info(ctx, "starting stock monitor")
		if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "stock monitor stopped unexpectedly", err)
			exitCode = 1
		}
		logg.Info(ctx, "stock monitor shutting down gracefully")
	}

	var closeErr error
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		closeErr = multierr.Append(closeErr, metricsServer.Shutdown(shutdownCtx))
		cancel()
	}
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
