// Package catalog resolves wishlisted products through the catalog service.
package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
)

var _ ports.Catalog = (*Products)(nil)

type Products struct {
	catalog catalogports.Service
}

func NewProducts(catalog catalogports.Service) *Products {
	return &Products{catalog: catalog}
}

func (p *Products) Product(ctx context.Context, productID string) (*ports.Product, error) {
	if p == nil || p.catalog == nil {
		return nil, errors.New("wishlist catalog not configured")
	}
	product, err := p.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	out := &ports.Product{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Price:         product.Price,
		AverageRating: product.AverageRating,
		Stock:         product.Stock,
	}
	if len(product.Images) > 0 {
		out.Image = product.Images[0]
	}
	return out, nil
}
