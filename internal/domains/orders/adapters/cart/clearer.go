// Package cart empties the customer's cart once an order is placed.
package cart

import (
	"context"
	"errors"

	cartports "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
)

var _ ports.CartClearer = (*Clearer)(nil)

type Clearer struct {
	carts cartports.Service
}

func NewClearer(carts cartports.Service) *Clearer {
	return &Clearer{carts: carts}
}

func (c *Clearer) Clear(ctx context.Context, userID string) error {
	if c == nil || c.carts == nil {
		return errors.New("cart service not configured")
	}
	return c.carts.Clear(ctx, userID)
}
