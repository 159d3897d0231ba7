package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the fulfilment lifecycle of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus enumerates payment progression.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// History notes written by the lifecycle itself.
const (
	NotePlaced        = "Order placed"
	NoteCancelled     = "Cancelled by customer"
	NoteTrackingAdded = "Tracking number added"
)

var (
	ErrNoItems               = errors.New("order must contain at least one item")
	ErrMissingProductID      = errors.New("item product id is required")
	ErrInvalidQuantity       = errors.New("item quantity must be greater than zero")
	ErrNegativePrice         = errors.New("item price must not be negative")
	ErrMissingPaymentMethod  = errors.New("payment method is required")
	ErrInvalidStatus         = errors.New("order status is invalid")
	ErrInvalidPaymentStatus  = errors.New("payment status is invalid")
	ErrMissingTrackingNumber = errors.New("tracking number is required")
	ErrNegativeAmount        = errors.New("amounts must not be negative")
)

// AddressError lists the address fields that are missing.
type AddressError struct {
	Kind   string
	Fields []string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("incomplete %s address: missing %s", e.Kind, strings.Join(e.Fields, ", "))
}

// Address is a postal address snapshot.
type Address struct {
	Name    string
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
	Phone   string
}

// Validate requires street, city, state, zipCode and country.
func (a Address) Validate(kind string) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &AddressError{Kind: kind, Fields: missing}
	}
	return nil
}

// IsZero reports whether no field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Item is one ordered line with its price snapshot.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// LineTotal is price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks the line in isolation.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return ErrMissingProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// HistoryEntry records one status change.
type HistoryEntry struct {
	Status    Status
	Timestamp time.Time
	Note      string
}

// Order is the purchase aggregate. Items and amounts are frozen at creation;
// status changes only append to History.
type Order struct {
	ID              string
	UserID          string
	OrderNumber     string
	Items           []Item
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress Address
	BillingAddress  Address
	PaymentMethod   string
	PaymentStatus   PaymentStatus
	Status          Status
	History         []HistoryEntry
	TrackingNumber  string
	TrackingCarrier string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transition sets the status and appends the matching history entry.
func (o *Order) Transition(to Status, note string, at time.Time) error {
	if !ValidStatus(to) {
		return ErrInvalidStatus
	}
	o.Status = to
	o.History = append(o.History, HistoryEntry{Status: to, Timestamp: at.UTC(), Note: note})
	o.UpdatedAt = at
	return nil
}

// TransitionStrict applies the lifecycle table before transitioning.
func (o *Order) TransitionStrict(to Status, note string, at time.Time) error {
	if !ValidStatus(to) {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, to) {
		return &TransitionError{OrderID: o.ID, From: o.Status, To: to}
	}
	return o.Transition(to, note, at)
}

// Cancel moves a pending or processing order to cancelled.
func (o *Order) Cancel(at time.Time) error {
	if !o.Cancellable() {
		return &TransitionError{OrderID: o.ID, From: o.Status, To: StatusCancelled}
	}
	return o.Transition(StatusCancelled, NoteCancelled, at)
}

// Cancellable reports whether a customer may still cancel.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// AddTracking records the shipment and forces the order to shipped,
// whatever its current status.
func (o *Order) AddTracking(number, carrier string, at time.Time) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrMissingTrackingNumber
	}
	o.TrackingNumber = number
	o.TrackingCarrier = strings.TrimSpace(carrier)
	return o.Transition(StatusShipped, NoteTrackingAdded, at)
}

// SetPaymentStatus overwrites the payment status.
func (o *Order) SetPaymentStatus(status PaymentStatus, at time.Time) error {
	if !ValidPaymentStatus(status) {
		return ErrInvalidPaymentStatus
	}
	o.PaymentStatus = status
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	clone.History = append([]HistoryEntry(nil), o.History...)
	return &clone
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}
