package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
)

type Service interface {
	Create(ctx context.Context, input types.CreateInput) (*domain.Subscription, error)
	Update(ctx context.Context, id, userID string, patch types.Patch) (*domain.Subscription, error)
	Pause(ctx context.Context, id, userID string) (*domain.Subscription, error)
	Resume(ctx context.Context, id, userID string) (*domain.Subscription, error)
	Cancel(ctx context.Context, id, userID string) (*domain.Subscription, error)
	List(ctx context.Context, userID string) ([]types.View, error)
	CountActive(ctx context.Context) (int64, error)
}
