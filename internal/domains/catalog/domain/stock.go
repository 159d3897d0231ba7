package domain

import (
	"fmt"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

// StockError reports a reservation the product's stock could not cover.
type StockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return errkind.InsufficientStock }
