package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	ErrInvalidInput  = errkind.Tag(errkind.Validation, "invalid review input")
	ErrMissingUserID = errors.New("user id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrTitleTooLong) ||
		errors.Is(err, domain.ErrCommentTooLong) ||
		errors.Is(err, ErrMissingUserID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
