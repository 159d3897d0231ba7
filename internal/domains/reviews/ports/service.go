package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Service exposes review use cases to adapters.
type Service interface {
	CreateReview(ctx context.Context, userID string, input types.ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, id, requesterID string, patch types.ReviewPatch) (*domain.Review, error)
	DeleteReview(ctx context.Context, id, requesterID string) error
	MarkHelpful(ctx context.Context, id string) (*domain.Review, error)
	ListProductReviews(ctx context.Context, productID string, page, limit int) (pagination.Page[types.ReviewView], error)
	ListUserReviews(ctx context.Context, userID string, page, limit int) (pagination.Page[types.ReviewView], error)
}
