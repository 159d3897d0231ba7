package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	ErrNotFound        = errkind.Tag(errkind.NotFound, "review not found")
	ErrProductNotFound = errkind.Tag(errkind.NotFound, "product not found")
	ErrUnauthorized    = errkind.Tag(errkind.Unauthorized, "review belongs to another user")
	ErrDuplicateReview = errkind.Tag(errkind.DuplicateReview, "you have already reviewed this product")
	// ErrConcurrentUpdate reports that the rating changed between read and write.
	ErrConcurrentUpdate = errkind.Tag(errkind.InvalidTransition, "review was modified concurrently")
)

// Repository persists reviews. At most one review exists per (user, product).
type Repository interface {
	// Create fails with ErrDuplicateReview when the user already reviewed the product.
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	// Update writes rating, title and comment. It fails with
	// ErrConcurrentUpdate unless the stored rating still equals fromRating.
	Update(ctx context.Context, review *domain.Review, fromRating int) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	IncrementHelpful(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string, page pagination.Request) ([]*domain.Review, int64, error)
	ListByUser(ctx context.Context, userID string, page pagination.Request) ([]*domain.Review, int64, error)
}
