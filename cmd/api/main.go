package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmejorado/agentic-checkout/api/controllers"
	"github.com/dmejorado/agentic-checkout/api/routes"
	"github.com/dmejorado/agentic-checkout/internal/catalog"
	"github.com/dmejorado/agentic-checkout/internal/fulfillment"
	"github.com/dmejorado/agentic-checkout/internal/payments"
	"github.com/dmejorado/agentic-checkout/internal/pricing"
	"github.com/dmejorado/agentic-checkout/internal/session"
	"github.com/dmejorado/agentic-checkout/internal/webhooks"
	"github.com/dmejorado/agentic-checkout/pkg/config"
	"github.com/dmejorado/agentic-checkout/pkg/db"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
	"github.com/dmejorado/agentic-checkout/pkg/metrics"
	"github.com/dmejorado/agentic-checkout/pkg/migrate"
	"github.com/dmejorado/agentic-checkout/pkg/redis"
	"github.com/dmejorado/agentic-checkout/pkg/square"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	cat, err := catalog.LoadFile(cfg.Checkout.CatalogPath)
	if err != nil {
		logg.Error(context.Background(), "failed to load product catalog", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{}

	var store session.Store
	switch cfg.Store.NormalizedBackend() {
	case config.StoreBackendRedis:
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisStore, err := session.NewRedisStore(redisClient, cfg.Store.SessionTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to build redis session store", err)
			os.Exit(1)
		}
		store = redisStore
		pingers["redis"] = redisClient

	case config.StoreBackendPostgres:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
		gormStore, err := session.NewGormStore(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to build postgres session store", err)
			os.Exit(1)
		}
		store = gormStore
		pingers["postgres"] = dbClient

	default:
		store = session.NewMemoryStore()
	}

	var processor payments.Processor
	if cfg.Square.AccessToken != "" {
		squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap square client", err)
			os.Exit(1)
		}
		processor, err = payments.NewSquareProcessor(squareClient)
		if err != nil {
			logg.Error(context.Background(), "failed to build square processor", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no square credentials configured, using simulated payment processor")
		processor = payments.NewSimulated()
	}

	taxTable, err := pricing.NewRateTable(cfg.Checkout.TaxRate, cfg.Checkout.TaxRateOverrides)
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate configuration", err)
		os.Exit(1)
	}

	sessionService, err := session.NewService(session.ServiceParams{
		Store:              store,
		Catalog:            cat,
		Resolver:           fulfillment.NewResolver(cfg.Checkout.FreeShippingThresholdCents),
		Tax:                taxTable,
		Processor:          processor,
		Notifier:           webhooks.NewNotifier(cfg.Webhook, logg),
		Metrics:            metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Logger:             logg,
		Currency:           cfg.Checkout.NormalizedCurrency(),
		PaymentProvider:    cfg.Checkout.PaymentProvider,
		OrderPermalinkBase: cfg.Checkout.OrderPermalinkBase,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting checkout api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, sessionService, pingers),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
