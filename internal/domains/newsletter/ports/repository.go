package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	ErrNotFound      = errkind.Tag(errkind.NotFound, "email not found in newsletter")
	ErrAlreadyExists = errkind.Tag(errkind.DuplicateKey, "email already subscribed")
)

// Repository stores subscribers keyed by normalized email.
type Repository interface {
	Create(ctx context.Context, s *domain.Subscriber) error
	Get(ctx context.Context, email string) (*domain.Subscriber, error)
	Save(ctx context.Context, s *domain.Subscriber) error
	List(ctx context.Context, activeOnly bool, page pagination.Request) (pagination.Page[*domain.Subscriber], error)
	CountActive(ctx context.Context) (int64, error)
}
