package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Service exposes the order lifecycle to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string, requester types.Requester) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string, page, limit int) (pagination.Page[*domain.Order], error)
	ListOrders(ctx context.Context, query types.ListOrdersQuery) (pagination.Page[*domain.Order], error)
	TrackOrder(ctx context.Context, orderNumber string) (*types.Tracking, error)
	CancelOrder(ctx context.Context, id, requesterID string) (*domain.Order, error)
	AddTracking(ctx context.Context, id, trackingNumber, carrier string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status, note string) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error)
}

// PlacementSteps are the individual checkout steps, run in sequence by
// PlaceOrder or one activity at a time by the durable workflow.
type PlacementSteps interface {
	PrepareOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	ReserveInventory(ctx context.Context, order *domain.Order) error
	PersistOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReleaseInventory(ctx context.Context, order *domain.Order) error
	ClearCart(ctx context.Context, userID string) error
}
