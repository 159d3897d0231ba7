package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	ErrNotFound        = errkind.Tag(errkind.NotFound, "cart not found")
	ErrProductNotFound = errkind.Tag(errkind.NotFound, "product not found")
)

// Repository stores one cart per user.
type Repository interface {
	// Get returns ErrNotFound when the user never had a cart.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// Mutate applies fn to the user's cart atomically, creating an empty cart
	// first when create is set. Without create a missing cart is ErrNotFound.
	Mutate(ctx context.Context, userID string, create bool, fn func(*domain.Cart) error) (*domain.Cart, error)
}
