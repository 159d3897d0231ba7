package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	ErrNotFound             = errkind.Tag(errkind.NotFound, "order not found")
	ErrUnauthorized         = errkind.Tag(errkind.Unauthorized, "order belongs to another user")
	ErrDuplicateOrderNumber = errkind.Tag(errkind.DuplicateKey, "order number already exists")
	// ErrConcurrentUpdate reports that the order changed status between read and write.
	ErrConcurrentUpdate = errkind.Tag(errkind.InvalidTransition, "order was modified concurrently")
	// ErrProductNotFound reports an ordered product missing from the catalog.
	ErrProductNotFound = errkind.Tag(errkind.NotFound, "product not found")
)

// Repository persists orders. Orders are never deleted.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Update writes status, payment, tracking and any history entries appended
	// since the order was read. It fails with ErrConcurrentUpdate unless the
	// stored status still equals from.
	Update(ctx context.Context, order *domain.Order, from domain.Status) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, page pagination.Request) ([]*domain.Order, int64, error)
	// List returns every order, or those in status when it is set.
	List(ctx context.Context, status domain.Status, page pagination.Request) ([]*domain.Order, int64, error)
}
