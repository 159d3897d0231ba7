package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	ErrInvalidInput = errkind.Tag(errkind.Validation, "invalid cart input")
	// ErrInsufficientStock reports a requested quantity above the product's stock.
	ErrInsufficientStock = errkind.Tag(errkind.InsufficientStock, "insufficient stock")
	ErrMissingUserID     = errors.New("user id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, ErrMissingUserID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
