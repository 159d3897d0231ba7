package ports

import (
	"context"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Service exposes the users bounded context to adapters.
type Service interface {
	auth.Authenticator

	Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error)
	Login(ctx context.Context, email, password string) (*types.AuthResult, error)
	Logout(ctx context.Context, tokenID string) error

	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch types.ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error

	AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error)
	UpdateAddress(ctx context.Context, userID, addressID string, addr domain.Address) (*domain.User, error)
	RemoveAddress(ctx context.Context, userID, addressID string) (*domain.User, error)

	AddToWishlist(ctx context.Context, userID, productID string) ([]string, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) ([]string, error)
	Wishlist(ctx context.Context, userID string) ([]Product, error)
	InWishlist(ctx context.Context, userID, productID string) (bool, error)

	ListUsers(ctx context.Context, page, limit int) (pagination.Page[*domain.User], error)
	UpdateRole(ctx context.Context, userID, role string) (*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
}
