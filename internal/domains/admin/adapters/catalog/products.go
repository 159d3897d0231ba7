// Package catalog feeds product names, categories and counts into admin reports.
package catalog

import (
	"context"
	"errors"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
)

var _ ports.Catalog = (*Products)(nil)

type Products struct {
	catalog catalogports.Service
}

func NewProducts(catalog catalogports.Service) *Products {
	return &Products{catalog: catalog}
}

// CountActiveProducts reads the total of the default listing, which holds
// active products only.
func (p *Products) CountActiveProducts(ctx context.Context) (int64, error) {
	page, err := p.catalog.ListProducts(ctx, catalogtypes.ListProductsQuery{Page: 1, Limit: 1})
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (p *Products) Product(ctx context.Context, id string) (*ports.Product, error) {
	product, err := p.catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ports.ErrUnknown
		}
		return nil, err
	}
	return &ports.Product{ID: product.ID, Name: product.Name, Category: product.Category}, nil
}
