package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	ErrNotFound        = errkind.Tag(errkind.NotFound, "subscription not found")
	ErrProductNotFound = errkind.Tag(errkind.NotFound, "product not found")
)

// Repository persists subscriptions. Lookups are scoped to the owning user;
// a subscription owned by someone else reads as ErrNotFound.
type Repository interface {
	Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
	Get(ctx context.Context, id, userID string) (*domain.Subscription, error)
	Save(ctx context.Context, s *domain.Subscription) error
	// ListByUser returns the user's subscriptions newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
	CountActive(ctx context.Context) (int64, error)
}
