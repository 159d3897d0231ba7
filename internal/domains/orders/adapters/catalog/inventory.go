// Package catalog adapts the catalog service to the inventory port used by ordering.
package catalog

import (
	"context"
	"errors"

	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
)

var _ ports.Inventory = (*Inventory)(nil)

// Inventory reads products and moves stock through the catalog service.
type Inventory struct {
	catalog catalogports.Service
}

func NewInventory(catalog catalogports.Service) *Inventory {
	return &Inventory{catalog: catalog}
}

func (i *Inventory) Lookup(ctx context.Context, productID string) (ports.ProductSnapshot, error) {
	if err := i.ensure(); err != nil {
		return ports.ProductSnapshot{}, err
	}
	product, err := i.catalog.GetProduct(ctx, productID)
	if err != nil {
		return ports.ProductSnapshot{}, err
	}
	return ports.ProductSnapshot{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}, nil
}

func (i *Inventory) Reserve(ctx context.Context, lines []ports.StockLine) error {
	if err := i.ensure(); err != nil {
		return err
	}
	return i.catalog.ReserveStock(ctx, toCatalogLines(lines))
}

func (i *Inventory) Release(ctx context.Context, lines []ports.StockLine) error {
	if err := i.ensure(); err != nil {
		return err
	}
	return i.catalog.ReleaseStock(ctx, toCatalogLines(lines))
}

func (i *Inventory) ensure() error {
	if i == nil || i.catalog == nil {
		return errors.New("catalog inventory not configured")
	}
	return nil
}

func toCatalogLines(lines []ports.StockLine) []catalogtypes.StockLine {
	out := make([]catalogtypes.StockLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, catalogtypes.StockLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}
