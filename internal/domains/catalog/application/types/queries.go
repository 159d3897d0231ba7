package types

import "github.com/shopspring/decimal"

// SortOrder selects the product listing order.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortName      SortOrder = "name"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to newest.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(raw) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return SortOrder(raw)
	default:
		return SortNewest
	}
}

// ProductFilter narrows a listing. Inactive products are only included when
// IncludeInactive is set.
type ProductFilter struct {
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Tags            []string
	Search          string
	Sort            SortOrder
	IncludeInactive bool
}

// ListProductsQuery pairs a filter with a page window.
type ListProductsQuery struct {
	Filter ProductFilter
	Page   int
	Limit  int
}
