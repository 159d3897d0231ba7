package types

import "github.com/shopspring/decimal"

// ProductInput carries the fields required to create a product.
type ProductInput struct {
	Name           string
	Slug           string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Images         []string
	Category       string
	Tags           []string
	Stock          int
	SKU            string
	IsActive       *bool
}

// ProductPatch updates only the fields that are set. Stock is adjusted
// through AdjustStock, never overwritten.
type ProductPatch struct {
	Name           *string
	Slug           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Images         *[]string
	Category       *string
	Tags           *[]string
	SKU            *string
	IsActive       *bool
}

// StockLine is one product quantity moved by the ledger.
type StockLine struct {
	ProductID string
	Quantity  int
}
