// Package catalog connects reviews to the product rating aggregate.
package catalog

import (
	"context"
	"errors"

	catalogdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
)

var _ ports.Catalog = (*Ratings)(nil)

type Ratings struct {
	catalog catalogports.Service
}

func NewRatings(catalog catalogports.Service) *Ratings {
	return &Ratings{catalog: catalog}
}

func (r *Ratings) ProductName(ctx context.Context, productID string) (string, error) {
	if err := r.ensure(); err != nil {
		return "", err
	}
	product, err := r.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", translate(err)
	}
	return product.Name, nil
}

func (r *Ratings) AddRating(ctx context.Context, productID string, rating int) error {
	return r.apply(ctx, productID, rating, catalogdomain.RatingAdd)
}

func (r *Ratings) RemoveRating(ctx context.Context, productID string, rating int) error {
	return r.apply(ctx, productID, rating, catalogdomain.RatingRemove)
}

func (r *Ratings) apply(ctx context.Context, productID string, rating int, direction catalogdomain.RatingDirection) error {
	if err := r.ensure(); err != nil {
		return err
	}
	_, err := r.catalog.ApplyRating(ctx, productID, rating, direction)
	return translate(err)
}

func (r *Ratings) ensure() error {
	if r == nil || r.catalog == nil {
		return errors.New("review catalog not configured")
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return ports.ErrProductNotFound
	}
	return err
}
