package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is what ordering needs to know about a catalog product.
type ProductSnapshot struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}

// StockLine is one product quantity to reserve or release.
type StockLine struct {
	ProductID string
	Quantity  int
}

// Inventory is the catalog as seen from ordering.
type Inventory interface {
	// Lookup resolves a product regardless of its active flag.
	Lookup(ctx context.Context, productID string) (ProductSnapshot, error)
	// Reserve takes every line or none.
	Reserve(ctx context.Context, lines []StockLine) error
	Release(ctx context.Context, lines []StockLine) error
}

// CartClearer empties a user's cart after checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}
