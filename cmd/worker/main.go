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
	"gorm.io/gorm"

	orderscatalog "github.com/martagenovese/poldo/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/martagenovese/poldo/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/martagenovese/poldo/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/martagenovese/poldo/internal/domains/orders/application"
	ordersports "github.com/martagenovese/poldo/internal/domains/orders/ports"

	catalogmemory "github.com/martagenovese/poldo/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/martagenovese/poldo/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/martagenovese/poldo/internal/domains/catalog/application"
	catalogports "github.com/martagenovese/poldo/internal/domains/catalog/ports"

	shiftsmemory "github.com/martagenovese/poldo/internal/domains/shifts/adapters/memory"
	shiftspostgres "github.com/martagenovese/poldo/internal/domains/shifts/adapters/persistence/postgres"
	shiftsapp "github.com/martagenovese/poldo/internal/domains/shifts/application"
	shiftports "github.com/martagenovese/poldo/internal/domains/shifts/ports"

	platformkafka "github.com/martagenovese/poldo/internal/platform/kafka"
	platformobservability "github.com/martagenovese/poldo/internal/platform/observability"
	platformpostgres "github.com/martagenovese/poldo/internal/platform/postgres"
	orderactivities "github.com/martagenovese/poldo/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/martagenovese/poldo/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "poldo-worker"
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

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()

	// The activity service is undecorated so NotifyOrderPrepared stays the
	// single audit emitter for workflow-driven preparation.
	orderService := ordersapp.NewService(
		buildOrderRepository(db),
		shiftsapp.NewService(buildShiftRepository(db)),
		orderscatalog.New(catalogapp.NewService(buildCatalogRepository(db))),
	)
	orderActivities := orderactivities.NewActivities(orderService, buildAuditPublisher(logger))

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

	w := worker.New(temporalClient, orderworkflows.OrderPreparationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPreparationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPreparationWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.MarkOrderPrepared, activity.RegisterOptions{Name: orderactivities.MarkOrderPreparedActivityName})
	w.RegisterActivityWithOptions(orderActivities.NotifyOrderPrepared, activity.RegisterOptions{Name: orderactivities.NotifyOrderPreparedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPreparationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(db *gorm.DB) ordersports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	return orderspostgres.NewRepository(db)
}

func buildShiftRepository(db *gorm.DB) shiftports.Repository {
	if db == nil {
		return shiftsmemory.NewRepository()
	}
	return shiftspostgres.NewRepository(db)
}

func buildCatalogRepository(db *gorm.DB) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	return catalogpostgres.NewRepository(db)
}

func buildAuditPublisher(logger *slog.Logger) platformkafka.Publisher {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		logger.Warn("KAFKA_BROKERS not set, prepared notifications will be dropped")
		return platformkafka.NopPublisher{}
	}
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	topic := envOrDefault("KAFKA_AUDIT_TOPIC", "poldo.audit")
	return platformkafka.NewWriterPublisher(brokers, topic, logger)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
