package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/foxnuts-farm-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence prepares, reserves and persists an order. When
// persistence fails the reservation is released before the error is returned.
// Clearing the cart is best effort.
func RunOrderPlacementSequence(ctx workflow.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", input.UserID)

	prepareOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	// A reservation is not idempotent, so it runs once.
	reserveOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	compensationOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    10,
		},
	}
	cartOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 2},
	}

	var order domain.Order
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, prepareOptions), orderactivities.PrepareOrderActivityName, input).Get(ctx, &order); err != nil {
		logger.Error("order placement sequence rejected checkout", "userId", input.UserID, "error", err)
		return nil, err
	}

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, reserveOptions), orderactivities.ReserveInventoryActivityName, &order).Get(ctx, nil); err != nil {
		logger.Error("order placement sequence reservation failed", "orderNumber", order.OrderNumber, "error", err)
		return nil, err
	}

	var saved domain.Order
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, &order).Get(ctx, &saved); err != nil {
		logger.Error("order placement sequence persistence failed; releasing stock", "orderNumber", order.OrderNumber, "error", err)
		if relErr := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, compensationOptions), orderactivities.ReleaseInventoryActivityName, &order).Get(ctx, nil); relErr != nil {
			logger.Error("order placement sequence compensation failed", "orderNumber", order.OrderNumber, "error", relErr)
		}
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", saved.ID, "orderNumber", saved.OrderNumber)

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, cartOptions), orderactivities.ClearCartActivityName, saved.UserID).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence could not clear cart", "userId", saved.UserID, "error", err)
	}
	return &saved, nil
}
