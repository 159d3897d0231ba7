package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog view shown on a wishlist.
type Product struct {
	ID            string
	Name          string
	Slug          string
	Price         decimal.Decimal
	Image         string
	AverageRating decimal.Decimal
	Stock         int
}

// Catalog resolves wishlisted products. Missing products return ErrProductNotFound.
type Catalog interface {
	Product(ctx context.Context, id string) (*Product, error)
}
