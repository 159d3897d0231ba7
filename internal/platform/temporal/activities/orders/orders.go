package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

const (
	// PrepareOrderActivityName validates a checkout and prices it without writing anything.
	PrepareOrderActivityName = "orders.activities.PrepareOrder"
	// ReserveInventoryActivityName takes stock for every line or none.
	ReserveInventoryActivityName = "orders.activities.ReserveInventory"
	// PersistOrderActivityName stores the prepared order.
	PersistOrderActivityName = "orders.activities.PersistOrder"
	// ReleaseInventoryActivityName returns reserved stock when persistence fails.
	ReleaseInventoryActivityName = "orders.activities.ReleaseInventory"
	// ClearCartActivityName empties the buyer's cart after checkout.
	ClearCartActivityName = "orders.activities.ClearCart"
)

// Activities groups the checkout steps run by the placement workflow.
type Activities struct {
	steps ports.PlacementSteps
	repo  ports.Repository
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
func NewActivities(steps ports.PlacementSteps, repo ports.Repository) *Activities {
	return &Activities{steps: steps, repo: repo}
}

func (a *Activities) PrepareOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return nil, errors.New("order activities not initialized")
	}
	logger.Info("PrepareOrder activity started", "userId", input.UserID, "lines", len(input.Items))
	order, err := a.steps.PrepareOrder(ctx, input)
	if err != nil {
		logger.Error("PrepareOrder activity failed", "userId", input.UserID, "error", err)
		return nil, asActivityError(err)
	}
	logger.Info("PrepareOrder activity completed", "orderNumber", order.OrderNumber)
	return order, nil
}

func (a *Activities) ReserveInventory(ctx context.Context, order *domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("order activities not initialized")
	}
	logger.Info("ReserveInventory activity started", "orderNumber", order.OrderNumber)
	if err := a.steps.ReserveInventory(ctx, order); err != nil {
		logger.Error("ReserveInventory activity failed", "orderNumber", order.OrderNumber, "error", err)
		return asActivityError(err)
	}
	logger.Info("ReserveInventory activity completed", "orderNumber", order.OrderNumber)
	return nil
}

// PersistOrder stores the order. A retry after a write that already landed
// finds the order by number and returns it.
func (a *Activities) PersistOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return nil, errors.New("order activities not initialized")
	}
	logger.Info("PersistOrder activity started", "orderNumber", order.OrderNumber)
	saved, err := a.steps.PersistOrder(ctx, order)
	if errors.Is(err, ports.ErrDuplicateOrderNumber) && a.repo != nil {
		existing, getErr := a.repo.GetByNumber(ctx, order.OrderNumber)
		if getErr == nil && existing.UserID == order.UserID && existing.Total.Equal(order.Total) {
			logger.Info("PersistOrder activity found order from a prior attempt", "orderId", existing.ID)
			return existing, nil
		}
	}
	if err != nil {
		logger.Error("PersistOrder activity failed", "orderNumber", order.OrderNumber, "error", err)
		return nil, asActivityError(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", saved.ID)
	return saved, nil
}

func (a *Activities) ReleaseInventory(ctx context.Context, order *domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("order activities not initialized")
	}
	if err := a.steps.ReleaseInventory(ctx, order); err != nil {
		logger.Error("ReleaseInventory activity failed", "orderNumber", order.OrderNumber, "error", err)
		return err
	}
	logger.Info("ReleaseInventory activity completed", "orderNumber", order.OrderNumber)
	return nil
}

func (a *Activities) ClearCart(ctx context.Context, userID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("order activities not initialized")
	}
	if err := a.steps.ClearCart(ctx, userID); err != nil {
		logger.Warn("ClearCart activity failed", "userId", userID, "error", err)
		return err
	}
	return nil
}

// asActivityError marks classified domain failures as non-retryable and
// carries their code so the caller can rebuild the error kind.
func asActivityError(err error) error {
	code := errkind.Code(err)
	if code == "internal" {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), code, err)
}
