package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	// ErrInvalidInput signals the checkout or admin command violated an order invariant.
	ErrInvalidInput = errkind.Tag(errkind.Validation, "invalid order input")
	// ErrMissingUserID signals an order placed without an authenticated user.
	ErrMissingUserID = errors.New("user id is required")
	// ErrMissingOrderNumber signals a tracking lookup without a number.
	ErrMissingOrderNumber = errors.New("order number is required")
)

// StockError names the product whose live stock cannot cover a line.
type StockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	name := e.Name
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return errkind.InsufficientStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var addrErr *domain.AddressError
	if errors.As(err, &addrErr) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrMissingProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrMissingPaymentMethod) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) ||
		errors.Is(err, domain.ErrMissingTrackingNumber) ||
		errors.Is(err, domain.ErrNegativeAmount) ||
		errors.Is(err, ErrMissingUserID) ||
		errors.Is(err, ErrMissingOrderNumber) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
