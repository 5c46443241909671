package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cartmemory "github.com/bapesu/storefront-api/internal/domains/cart/adapters/memory"
	cartredis "github.com/bapesu/storefront-api/internal/domains/cart/adapters/redis"
	cartapp "github.com/bapesu/storefront-api/internal/domains/cart/application"
	cartports "github.com/bapesu/storefront-api/internal/domains/cart/ports"
	checkoutlocal "github.com/bapesu/storefront-api/internal/domains/checkout/adapters/local"
	"github.com/bapesu/storefront-api/internal/domains/checkout/adapters/whatsapp"
	checkoutworkflows "github.com/bapesu/storefront-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/bapesu/storefront-api/internal/domains/checkout/application"
	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	ordersmemory "github.com/bapesu/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bapesu/storefront-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/bapesu/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/bapesu/storefront-api/internal/domains/orders/application"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
	"github.com/bapesu/storefront-api/internal/platform/auth"
	"github.com/bapesu/storefront-api/internal/platform/migrations"
	platformobservability "github.com/bapesu/storefront-api/internal/platform/observability"
	platformpostgres "github.com/bapesu/storefront-api/internal/platform/postgres"
	"github.com/bapesu/storefront-api/internal/server"
)

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "storefront-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	repo, ratings, idempotency, cleanupRepo := buildOrderStores(ctx, cfg, logger)
	defer cleanupRepo()

	coreOrders := ordersapp.NewService(repo, ratings, ordersapp.WithIdempotencyStore(idempotency))
	ordersService := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	cartStore := cartapp.NewStore(buildCartCache(cfg, logger), cartapp.WithLogger(logger))

	verifier := auth.NewVerifier(cfg.JWTSecret)
	placer := checkoutlocal.NewPlacer(ordersService, verifier)
	notifier := whatsapp.NewNotifier(cfg.WhatsAppPhone)
	var orchestrator checkoutports.PlacementOrchestrator = checkoutworkflows.NewInlinePlacement(placer, notifier)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = checkoutworkflows.NewTemporalPlacement(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	checkout := checkoutapp.NewController(cartStore, orchestrator, checkoutapp.WithLogger(logger))

	srv := server.New(ordersService, cartStore, checkout, verifier, logger)
	router := srv.Router(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderStores(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Repository, ordersports.RatingStore, ordersports.IdempotencyStore, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order stores")
		return ordersmemory.NewRepository(), ordersmemory.NewRatingStore(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewRatingStore(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewRatingStore(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
	}
	logger.Info("order stores configured with postgres")
	return orderspostgres.NewRepository(db),
		orderspostgres.NewRatingStore(db),
		orderspostgres.NewIdempotencyStore(db, cfg.IdempotencyTTL),
		func() { _ = sqlDB.Close() }
}

func buildCartCache(cfg Config, logger *slog.Logger) cartports.CacheStore {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, falling back to in-memory cart cache")
		return cartmemory.NewCache()
	}
	cache, err := cartredis.NewCache(cfg.RedisAddr)
	if err != nil {
		logger.Warn("failed to configure redis cart cache, falling back to memory", slog.String("error", err.Error()))
		return cartmemory.NewCache()
	}
	logger.Info("cart cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return cache
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
