package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordersclient "github.com/bapesu/storefront-api/internal/clients/http/orders"
	checkoutlocal "github.com/bapesu/storefront-api/internal/domains/checkout/adapters/local"
	"github.com/bapesu/storefront-api/internal/domains/checkout/adapters/whatsapp"
	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
	ordersmemory "github.com/bapesu/storefront-api/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/bapesu/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/bapesu/storefront-api/internal/domains/orders/application"
	orderactivities "github.com/bapesu/storefront-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/bapesu/storefront-api/internal/durable/temporal/workflows/orders"
	"github.com/bapesu/storefront-api/internal/platform/auth"
	platformobservability "github.com/bapesu/storefront-api/internal/platform/observability"
	platformpostgres "github.com/bapesu/storefront-api/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	placer, cleanupPlacer := buildOrderPlacer(ctx, logger)
	defer cleanupPlacer()
	notifier := whatsapp.NewNotifier(strings.TrimSpace(os.Getenv("WHATSAPP_PHONE")))
	activities := orderactivities.NewActivities(placer, notifier)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(activities.NotifyHandoff, activity.RegisterOptions{Name: orderactivities.NotifyHandoffActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderPlacer prefers the remote order API when ORDERS_API_URL is set,
// otherwise places orders directly against the shared database.
func buildOrderPlacer(ctx context.Context, logger *slog.Logger) (checkoutports.OrderPlacer, func()) {
	if baseURL := strings.TrimSpace(os.Getenv("ORDERS_API_URL")); baseURL != "" {
		placer, err := ordersclient.NewClient(baseURL, nil)
		if err == nil {
			logger.Info("worker placing orders via HTTP", slog.String("baseUrl", baseURL))
			return placer, func() {}
		}
		logger.Warn("failed to configure orders HTTP client, falling back to direct placement", slog.String("error", err.Error()))
	}

	verifier := auth.NewVerifier(strings.TrimSpace(os.Getenv("JWT_SECRET")))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order stores")
		service := ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewRatingStore(),
			ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
		return checkoutlocal.NewPlacer(service, verifier), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		service := ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewRatingStore(),
			ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
		return checkoutlocal.NewPlacer(service, verifier), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		service := ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewRatingStore(),
			ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
		return checkoutlocal.NewPlacer(service, verifier), func() {}
	}
	logger.Info("worker order placement configured with postgres")
	service := ordersapp.NewService(orderspostgres.NewRepository(db), orderspostgres.NewRatingStore(db),
		ordersapp.WithIdempotencyStore(orderspostgres.NewIdempotencyStore(db, 0)))
	return checkoutlocal.NewPlacer(service, verifier), func() { _ = sqlDB.Close() }
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
