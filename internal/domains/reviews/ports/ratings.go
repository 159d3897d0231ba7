package ports

import "context"

// Catalog is the product side of reviewing: existence, names and the rating aggregate.
type Catalog interface {
	// ProductName fails with ErrProductNotFound for unknown products.
	ProductName(ctx context.Context, productID string) (string, error)
	AddRating(ctx context.Context, productID string, rating int) error
	RemoveRating(ctx context.Context, productID string, rating int) error
}

// Authors resolves reviewer display names. Unknown ids are omitted.
type Authors interface {
	Names(ctx context.Context, userIDs []string) (map[string]string, error)
}
