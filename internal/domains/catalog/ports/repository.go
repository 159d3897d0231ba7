package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	ErrNotFound      = errkind.Tag(errkind.NotFound, "product not found")
	ErrDuplicateSlug = errkind.Tag(errkind.DuplicateKey, "product slug already exists")
)

// Repository persists products. Save never overwrites the stock or rating
// aggregate of an existing product; those move through StockLedger and
// RatingStore only.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter types.ProductFilter, page pagination.Request) ([]*domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	CountActive(ctx context.Context) (int64, error)
}

// StockLedger applies single-product stock movements atomically.
type StockLedger interface {
	// Reserve decrements stock only if it covers qty, as one atomic step.
	Reserve(ctx context.Context, productID string, qty int) error
	// Release increments stock.
	Release(ctx context.Context, productID string, qty int) error
}

// RatingStore applies a rating to a product's aggregate as one atomic step.
type RatingStore interface {
	ApplyRating(ctx context.Context, productID string, rating int, direction domain.RatingDirection) (*domain.Product, error)
}

// Store is the full persistence surface the catalog service needs.
type Store interface {
	Repository
	StockLedger
	RatingStore
}
