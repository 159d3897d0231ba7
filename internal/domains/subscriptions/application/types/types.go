package types

import "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"

type CreateInput struct {
	UserID    string
	ProductID string
	Quantity  int
	Frequency string
}

// Patch carries the optional fields of an update.
type Patch struct {
	Quantity  *int
	Frequency *string
}

// View is a subscription with the product name resolved for display.
type View struct {
	*domain.Subscription
	ProductName string
}
