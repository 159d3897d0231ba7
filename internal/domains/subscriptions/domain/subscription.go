package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidFrequency = errors.New("frequency must be weekly, biweekly or monthly")
	ErrEmptyProductID   = errors.New("product id is required")
	ErrCancelled        = errors.New("subscription is cancelled")
)

// Days is the delivery interval. Unknown frequencies fall back to monthly.
func (f Frequency) Days() int {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	default:
		return 30
	}
}

func (f Frequency) Valid() bool {
	return f == Weekly || f == Biweekly || f == Monthly
}

// ParseFrequency normalizes and validates a frequency name.
func ParseFrequency(raw string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", ErrInvalidFrequency
	}
	return f, nil
}

// Subscription is a recurring delivery of one product. NextDelivery is a
// stored date only; nothing acts on it.
type Subscription struct {
	ID           string
	UserID       string
	ProductID    string
	Quantity     int
	Frequency    Frequency
	Price        decimal.Decimal
	Status       Status
	NextDelivery time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New starts an active subscription with the first delivery one interval out.
func New(userID, productID string, quantity int, frequency Frequency, price decimal.Decimal, now time.Time) (*Subscription, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrEmptyProductID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !frequency.Valid() {
		return nil, ErrInvalidFrequency
	}
	return &Subscription{
		UserID:       userID,
		ProductID:    productID,
		Quantity:     quantity,
		Frequency:    frequency,
		Price:        price,
		Status:       StatusActive,
		NextDelivery: now.AddDate(0, 0, frequency.Days()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Subscription) SetQuantity(quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	s.Quantity = quantity
	s.UpdatedAt = now
	return nil
}

// SetFrequency changes the interval and recomputes NextDelivery from now.
func (s *Subscription) SetFrequency(frequency Frequency, now time.Time) error {
	if !frequency.Valid() {
		return ErrInvalidFrequency
	}
	s.Frequency = frequency
	s.NextDelivery = now.AddDate(0, 0, frequency.Days())
	s.UpdatedAt = now
	return nil
}

func (s *Subscription) Pause(now time.Time) error {
	return s.transition(StatusPaused, now)
}

func (s *Subscription) Resume(now time.Time) error {
	return s.transition(StatusActive, now)
}

// Cancel is terminal. Cancelling twice keeps the first CancelledAt.
func (s *Subscription) Cancel(now time.Time) {
	if s.Status == StatusCancelled {
		return
	}
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
}

func (s *Subscription) transition(to Status, now time.Time) error {
	if s.Status == StatusCancelled {
		return ErrCancelled
	}
	s.Status = to
	s.UpdatedAt = now
	return nil
}

func (s *Subscription) Clone() *Subscription {
	if s == nil {
		return nil
	}
	c := *s
	if s.CancelledAt != nil {
		at := *s.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}
