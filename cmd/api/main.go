package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/bazaar-backend/api/routes"
	"github.com/angelmondragon/bazaar-backend/internal/bundles"
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/checkout"
	"github.com/angelmondragon/bazaar-backend/internal/cron"
	"github.com/angelmondragon/bazaar-backend/internal/identity"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/env"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 10 * time.Second
	maxSweepEvery   = time.Minute
)

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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(registry)

	storage, err := openCartStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart storage", err)
		os.Exit(1)
	}
	defer storage.Close(context.Background(), logg)

	carts, err := cart.NewRegistry(storage.factory, cfg.Cart.StorageKey, cart.Options{
		Logger:      logg,
		Metrics:     cartMetrics,
		SaveTimeout: cfg.Cart.SaveTimeout,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart registry", err)
		os.Exit(1)
	}

	cat, err := catalog.Default()
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	builder, err := bundles.NewBuilder(cat, bundles.NewAssembler(bundles.TimeSaltedIDs(time.Now)))
	if err != nil {
		logg.Error(ctx, "failed to create bundle builder", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(carts, cfg.Checkout.TaxRate, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	identityService, err := identity.NewService(identity.ServiceParams{
		Directory:      identity.NewDirectory(),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create identity service", err)
		os.Exit(1)
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("DYNO", "local"),
		"storage":  cfg.Cart.Backend().String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			metrics.NewHTTPMetrics(registry),
			storage,
			cat,
			carts,
			builder,
			checkoutService,
			identityService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	maintenance, err := newMaintenance(cfg, logg, registry, carts, builder, storage)
	if err != nil {
		logg.Error(ctx, "failed to create maintenance jobs", err)
		os.Exit(1)
	}
	go func() { _ = maintenance.Run(ctx) }()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeCarts(carts, logg)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		cancel()
	}

	closeCarts(carts, logg)
}

// closeCarts flushes every live cart before the storage backend goes away.
func closeCarts(carts *cart.Registry, logg *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := carts.Close(ctx); err != nil {
		logg.Error(ctx, "failed to flush carts on shutdown", err)
	}
}

func newMaintenance(cfg *config.Config, logg *logger.Logger, reg prometheus.Registerer, carts *cart.Registry, builder *bundles.Builder, storage *cartStorage) (*cron.Service, error) {
	jobMetrics := metrics.NewJobMetrics(reg)
	jobs, err := cron.NewRegistry()
	if err != nil {
		return nil, err
	}

	idle := cfg.Cart.IdleTimeout
	if idle > 0 {
		cartJob, err := cron.NewCartSweepJob(carts, idle, logg, jobMetrics)
		if err != nil {
			return nil, err
		}
		draftJob, err := cron.NewDraftSweepJob(builder, idle, logg, jobMetrics)
		if err != nil {
			return nil, err
		}
		if err := jobs.Register(cartJob); err != nil {
			return nil, err
		}
		if err := jobs.Register(draftJob); err != nil {
			return nil, err
		}
	}
	if storage.purger != nil && cfg.Cart.TTL > 0 {
		purgeJob, err := cron.NewCartPurgeJob(storage.purger, cfg.Cart.TTL, logg, jobMetrics)
		if err != nil {
			return nil, err
		}
		if err := jobs.Register(purgeJob); err != nil {
			return nil, err
		}
	}

	interval := maxSweepEvery
	if idle > 0 {
		interval = min(idle/2, maxSweepEvery)
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Metrics:  jobMetrics,
		Interval: interval,
	})
}
