package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Apurer/foxnuts-farm-api/internal/app/container"
	orderworkflows "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/foxnuts-farm-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
)

const serviceName = "foxnuts-farm-api"

// Run boots the HTTP API with observability, repositories, and workflows wired,
// and serves until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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
	if db != nil && cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		logger.Info("schema migrated")
	}

	services, err := container.Build(db, cfg.Settings(), Telemetry(instruments))
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	var workflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	gin.SetMode(cfg.GinMode)
	router := NewRouter(serviceName, services, workflows, logger)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Foxnuts Farm API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Foxnuts Farm API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down Foxnuts Farm API")
	return server.Shutdown(shutdownCtx)
}

// Settings projects the configuration the contexts are built from.
func (c Config) Settings() container.Settings {
	return container.Settings{
		JWTSecret:           c.JWTSecret,
		JWTTTL:              c.JWTTTL,
		OrderPricePolicy:    c.OrderPricePolicy,
		OrderStatusPolicy:   c.OrderStatusPolicy,
		DefaultShippingCost: c.DefaultShippingCost,
	}
}

// Telemetry adapts the process instruments for the service decorators.
func Telemetry(instruments *platformobservability.Instruments) container.Telemetry {
	if instruments == nil {
		return container.Telemetry{}
	}
	return container.Telemetry{
		Logger: instruments.Logger,
		Tracer: instruments.Tracer,
		Meter:  instruments.Meter,
	}
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
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
