package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	ErrInvalidInput  = errkind.Tag(errkind.Validation, "invalid subscription input")
	ErrCancelled     = errkind.Tag(errkind.InvalidTransition, "cannot change a cancelled subscription")
	ErrMissingUserID = errors.New("user id is required")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCancelled):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrEmptyProductID),
		errors.Is(err, ErrMissingUserID):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
