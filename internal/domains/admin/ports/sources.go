// Package ports declares what admin reporting reads from the other contexts.
package ports

import (
	"context"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var ErrUnknown = errkind.Tag(errkind.NotFound, "record not found")

type Product struct {
	ID       string
	Name     string
	Category string
}

// Catalog resolves product names and categories for sales reports.
type Catalog interface {
	CountActiveProducts(ctx context.Context) (int64, error)
	Product(ctx context.Context, id string) (*Product, error)
}

type Customer struct {
	ID    string
	Name  string
	Email string
}

// Customers resolves user counts and contact details.
type Customers interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)
	Customer(ctx context.Context, id string) (*Customer, error)
}

// ActiveCounter counts active newsletter signups or subscriptions.
type ActiveCounter interface {
	CountActive(ctx context.Context) (int64, error)
}
