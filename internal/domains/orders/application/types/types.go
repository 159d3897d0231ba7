package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
)

// ItemInput is one requested line. Price is the client-supplied unit price.
type ItemInput struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// PlaceOrderInput is the checkout command.
type PlaceOrderInput struct {
	UserID          string
	Items           []ItemInput
	ShippingAddress domain.Address
	BillingAddress  *domain.Address
	PaymentMethod   string
	ShippingCost    *decimal.Decimal
	Notes           string
	// IdempotencyKey deduplicates durable placements.
	IdempotencyKey string
}

// Requester is the caller of an owner-scoped operation.
type Requester struct {
	UserID  string
	IsAdmin bool
}

// ListOrdersQuery filters the admin listing.
type ListOrdersQuery struct {
	Status domain.Status
	Page   int
	Limit  int
}

// Tracking is the public projection of an order.
type Tracking struct {
	OrderNumber     string
	Status          domain.Status
	TrackingNumber  string
	TrackingCarrier string
	History         []domain.HistoryEntry
	CreatedAt       time.Time
}

// PricePolicy selects whose unit prices make up the subtotal.
type PricePolicy string

const (
	// PriceFromRequest uses the prices the client submitted.
	PriceFromRequest PricePolicy = "client"
	// PriceFromCatalog uses the stored product price.
	PriceFromCatalog PricePolicy = "catalog"
)

// StatusPolicy selects how admin status updates are validated.
type StatusPolicy string

const (
	// StatusPermissive lets admins set any known status.
	StatusPermissive StatusPolicy = "permissive"
	// StatusStrict enforces the lifecycle table for admins too.
	StatusStrict StatusPolicy = "strict"
)
