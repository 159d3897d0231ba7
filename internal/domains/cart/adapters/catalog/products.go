// Package catalog adapts the catalog service to the cart's product lookup.
package catalog

import (
	"context"
	"errors"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
)

var _ ports.Catalog = (*Products)(nil)

type Products struct {
	catalog catalogports.Service
}

func NewProducts(catalog catalogports.Service) *Products {
	return &Products{catalog: catalog}
}

func (p *Products) Product(ctx context.Context, productID string) (ports.Product, error) {
	if p == nil || p.catalog == nil {
		return ports.Product{}, errors.New("cart catalog not configured")
	}
	product, err := p.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return ports.Product{}, ports.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	out := ports.Product{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Stock:    product.Stock,
		IsActive: product.IsActive,
	}
	if len(product.Images) > 0 {
		out.Image = product.Images[0]
	}
	return out, nil
}
