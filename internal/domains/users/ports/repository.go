package ports

import (
	"context"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	ErrNotFound           = errkind.Tag(errkind.NotFound, "user not found")
	ErrEmailTaken         = errkind.Tag(errkind.DuplicateKey, "email already registered")
	ErrInvalidCredentials = errkind.Tag(errkind.Unauthenticated, "invalid email or password")
	ErrWrongPassword      = errkind.Tag(errkind.Unauthenticated, "current password is incorrect")
	ErrInvalidToken       = errkind.Tag(errkind.Unauthenticated, "invalid or expired token")
	ErrInactive           = errkind.Tag(errkind.Unauthorized, "account is disabled")
	ErrProductNotFound    = errkind.Tag(errkind.NotFound, "product not found")
	ErrAddressNotFound    = errkind.Tag(errkind.NotFound, "address not found")
)

// Repository persists users. Update loads the user, applies fn and stores
// the result atomically; an error from fn aborts without writing.
type Repository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.User], error)
	// Count counts users created at or after since; a zero since counts all.
	Count(ctx context.Context, since time.Time) (int64, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
}
