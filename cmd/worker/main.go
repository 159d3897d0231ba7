package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/foxnuts-farm-api/internal/app/api"
	"github.com/Apurer/foxnuts-farm-api/internal/app/container"
	platformobservability "github.com/Apurer/foxnuts-farm-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	orderactivities "github.com/Apurer/foxnuts-farm-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/foxnuts-farm-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "foxnuts-farm-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
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
	if db == nil {
		logger.Warn("worker running with in-memory repositories; orders will not be visible to the API")
	}
	services, err := container.Build(db, cfg.Settings(), api.Telemetry(instruments))
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := orderactivities.NewActivities(services.OrderSteps, services.OrderRepo)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.PlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.PlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.PlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PrepareOrder, activity.RegisterOptions{Name: orderactivities.PrepareOrderActivityName})
	w.RegisterActivityWithOptions(activities.ReserveInventory, activity.RegisterOptions{Name: orderactivities.ReserveInventoryActivityName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(activities.ReleaseInventory, activity.RegisterOptions{Name: orderactivities.ReleaseInventoryActivityName})
	w.RegisterActivityWithOptions(activities.ClearCart, activity.RegisterOptions{Name: orderactivities.ClearCartActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.PlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
