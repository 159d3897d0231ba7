package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
)

// ReserveStock reserves the lines in order with one conditional decrement each.
// When a line fails, the lines already reserved are released in reverse order
// and the original failure is returned.
func (s *Service) ReserveStock(ctx context.Context, lines []types.StockLine) error {
	if err := validateLines(lines); err != nil {
		return mapError(err)
	}
	reserved := make([]types.StockLine, 0, len(lines))
	for _, line := range lines {
		if err := s.store.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			if rollbackErr := s.releaseReverse(ctx, reserved); rollbackErr != nil {
				return errors.Join(mapError(err), fmt.Errorf("release reserved stock: %w", rollbackErr))
			}
			return mapError(err)
		}
		reserved = append(reserved, line)
	}
	return nil
}

// ReleaseStock returns every line to stock. All lines are attempted.
func (s *Service) ReleaseStock(ctx context.Context, lines []types.StockLine) error {
	if err := validateLines(lines); err != nil {
		return mapError(err)
	}
	var errs []error
	for _, line := range lines {
		if err := s.store.Release(ctx, line.ProductID, line.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", line.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) releaseReverse(ctx context.Context, lines []types.StockLine) error {
	// The caller's context may already be cancelled; compensation still has to run.
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(lines) - 1; i >= 0; i-- {
		if err := s.store.Release(ctx, lines[i].ProductID, lines[i].Quantity); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", lines[i].ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func validateLines(lines []types.StockLine) error {
	for _, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return ErrMissingProductID
		}
		if line.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}
