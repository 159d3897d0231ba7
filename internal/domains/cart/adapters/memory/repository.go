package memory

import (
	"context"
	"sync"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart store keyed by user.
type Repository struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[string]*domain.Cart{}}
}

func (r *Repository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cart.Clone(), nil
}

// Mutate applies fn to a copy under the lock and stores it only when fn succeeds.
func (r *Repository) Mutate(_ context.Context, userID string, create bool, fn func(*domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.carts[userID]
	if !ok {
		if !create {
			return nil, ports.ErrNotFound
		}
		current = domain.New(userID)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.carts[userID] = working
	return working.Clone(), nil
}
