package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

type Service interface {
	Subscribe(ctx context.Context, email, name string) (domain.Outcome, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, activeOnly bool, page, limit int) (pagination.Page[*domain.Subscriber], error)
	CountActive(ctx context.Context) (int64, error)
}
