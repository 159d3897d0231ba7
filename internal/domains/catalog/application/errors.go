package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errkind.Tag(errkind.Validation, "invalid product input")
	// ErrInvalidPriceRange signals minPrice greater than maxPrice.
	ErrInvalidPriceRange = errors.New("minPrice must not exceed maxPrice")
	// ErrMissingProductID signals a stock line without a product reference.
	ErrMissingProductID = errors.New("product id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptySlug) ||
		errors.Is(err, domain.ErrInvalidSlug) ||
		errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrEmptyCategory) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrInvalidDirection) ||
		errors.Is(err, ErrInvalidPriceRange) ||
		errors.Is(err, ErrMissingProductID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
