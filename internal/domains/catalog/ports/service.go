package ports

import (
	"context"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Service exposes catalog use cases to adapters and other contexts.
type Service interface {
	CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch types.ProductPatch) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, query types.ListProductsQuery) (pagination.Page[*domain.Product], error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)

	// ReserveStock reserves every line or none: lines reserved before a
	// failing line are released again.
	ReserveStock(ctx context.Context, lines []types.StockLine) error
	ReleaseStock(ctx context.Context, lines []types.StockLine) error

	ApplyRating(ctx context.Context, productID string, rating int, direction domain.RatingDirection) (*domain.Product, error)
}
