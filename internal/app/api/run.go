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
	"gorm.io/gorm"

	poldoserver "github.com/martagenovese/poldo/go"

	catalogmemory "github.com/martagenovese/poldo/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/martagenovese/poldo/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/martagenovese/poldo/internal/domains/catalog/application"
	catalogports "github.com/martagenovese/poldo/internal/domains/catalog/ports"

	shiftsmemory "github.com/martagenovese/poldo/internal/domains/shifts/adapters/memory"
	shiftspostgres "github.com/martagenovese/poldo/internal/domains/shifts/adapters/persistence/postgres"
	shiftsapp "github.com/martagenovese/poldo/internal/domains/shifts/application"
	shiftports "github.com/martagenovese/poldo/internal/domains/shifts/ports"

	ordersaudit "github.com/martagenovese/poldo/internal/domains/orders/adapters/audit"
	orderscatalog "github.com/martagenovese/poldo/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/martagenovese/poldo/internal/domains/orders/adapters/memory"
	ordersobs "github.com/martagenovese/poldo/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/martagenovese/poldo/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/martagenovese/poldo/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/martagenovese/poldo/internal/domains/orders/application"
	ordersports "github.com/martagenovese/poldo/internal/domains/orders/ports"

	redemptionaudit "github.com/martagenovese/poldo/internal/domains/redemption/adapters/audit"
	redemptionmemory "github.com/martagenovese/poldo/internal/domains/redemption/adapters/memory"
	redemptionobs "github.com/martagenovese/poldo/internal/domains/redemption/adapters/observability"
	redemptionorders "github.com/martagenovese/poldo/internal/domains/redemption/adapters/orders"
	redemptionpostgres "github.com/martagenovese/poldo/internal/domains/redemption/adapters/persistence/postgres"
	redemptionapp "github.com/martagenovese/poldo/internal/domains/redemption/application"
	redemptionports "github.com/martagenovese/poldo/internal/domains/redemption/ports"

	platformkafka "github.com/martagenovese/poldo/internal/platform/kafka"
	"github.com/martagenovese/poldo/internal/platform/migrations"
	platformobservability "github.com/martagenovese/poldo/internal/platform/observability"
	platformpostgres "github.com/martagenovese/poldo/internal/platform/postgres"
)

// Run boots the canteen HTTP API with observability, repositories, audit
// publishing, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "poldo-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
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

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	publisher := buildAuditPublisher(cfg, logger)
	defer func() { _ = publisher.Close() }()

	shiftService := shiftsapp.NewService(buildShiftRepository(db))
	catalogService := catalogapp.NewService(buildCatalogRepository(db))

	coreOrderService := ordersapp.NewService(
		buildOrderRepository(db),
		shiftService,
		orderscatalog.New(catalogService),
	)
	orderService := ordersobs.New(
		ordersaudit.New(coreOrderService, publisher),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if cfg.TemporalDisabled {
		logger.Info("Temporal workflows disabled, running preparation inline")
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running preparation inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coreRedemptionService := redemptionapp.NewService(
		buildTokenRepository(db),
		redemptionorders.New(orderService),
	)
	redemptionService := redemptionobs.New(
		redemptionaudit.New(coreRedemptionService, publisher),
		redemptionobs.WithLogger(logger),
		redemptionobs.WithTracer(instruments.Tracer("internal.redemption.application")),
		redemptionobs.WithMeter(instruments.Meter("internal.redemption.application")),
	)

	handlers := poldoserver.ApiHandleFunctions{
		TurniAPI:    poldoserver.NewTurniAPI(shiftService),
		ProdottiAPI: poldoserver.NewProdottiAPI(catalogService),
		OrdiniAPI:   poldoserver.NewOrdiniAPI(orderService, orderWorkflows),
		QrCodeAPI:   poldoserver.NewQrCodeAPI(redemptionService),
	}

	router := poldoserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("Poldo API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Poldo API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
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

func buildOrderRepository(db *gorm.DB) ordersports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	return orderspostgres.NewRepository(db)
}

func buildTokenRepository(db *gorm.DB) redemptionports.Repository {
	if db == nil {
		return redemptionmemory.NewRepository()
	}
	return redemptionpostgres.NewRepository(db)
}

func buildAuditPublisher(cfg Config, logger *slog.Logger) platformkafka.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, audit events will be dropped")
		return platformkafka.NopPublisher{}
	}
	logger.Info("audit publisher configured", slog.String("topic", cfg.KafkaTopic))
	return platformkafka.NewWriterPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalAddress == "" {
		return nil, errors.New("temporal address is empty")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
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
