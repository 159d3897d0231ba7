package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput  = errkind.Tag(errkind.Validation, "invalid user input")
	ErrMissingUserID = errors.New("user id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrAddressNotFound) {
		return ports.ErrAddressNotFound
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidPhone) ||
		errors.Is(err, domain.ErrPasswordTooShort) ||
		errors.Is(err, domain.ErrPasswordNoUpper) ||
		errors.Is(err, domain.ErrPasswordNoLower) ||
		errors.Is(err, domain.ErrPasswordNoDigit) ||
		errors.Is(err, domain.ErrInvalidRole) ||
		errors.Is(err, domain.ErrIncompleteAddress) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, ErrMissingUserID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
