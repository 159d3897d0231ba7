package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Catalog resolves the product a subscription delivers.
type Catalog interface {
	Product(ctx context.Context, productID string) (*Product, error)
}
