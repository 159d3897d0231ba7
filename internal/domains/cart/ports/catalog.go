package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is what the cart snapshots from the catalog.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Stock    int
	IsActive bool
}

// Catalog resolves products for the cart.
type Catalog interface {
	Product(ctx context.Context, productID string) (Product, error)
}
