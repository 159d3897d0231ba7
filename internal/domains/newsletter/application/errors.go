package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var ErrInvalidInput = errkind.Tag(errkind.Validation, "invalid newsletter input")

func mapError(err error) error {
	if errors.Is(err, domain.ErrInvalidEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
