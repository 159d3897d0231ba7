package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrEmptySlug        = errors.New("product slug is required")
	ErrInvalidSlug      = errors.New("product slug must be lowercase words separated by hyphens")
	ErrEmptyDescription = errors.New("product description is required")
	ErrEmptyCategory    = errors.New("product category is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeStock    = errors.New("product stock must not be negative")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product is a catalog entry. Stock and the rating aggregate are only changed
// through Reserve/Release and ApplyRating.
type Product struct {
	ID             string
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
	AverageRating  decimal.Decimal
	TotalReviews   int
	RatingTotal    int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Normalize trims free-text fields and lowercases the slug, category and tags.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.SKU = strings.TrimSpace(p.SKU)
	p.Tags = normalizeTags(p.Tags)
}

// Validate enforces the catalog invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Slug == "" {
		return ErrEmptySlug
	}
	if !slugPattern.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	if p.Description == "" {
		return ErrEmptyDescription
	}
	if p.Category == "" {
		return ErrEmptyCategory
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.CompareAtPrice != nil && p.CompareAtPrice.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Reserve decrements stock when it covers qty.
func (p *Product) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock < qty {
		return &StockError{ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	return nil
}

// Release increments stock. There is no upper bound.
func (p *Product) Release(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += qty
	return nil
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		clone.CompareAtPrice = &v
	}
	if p.Images != nil {
		clone.Images = append([]string{}, p.Images...)
	}
	if p.Tags != nil {
		clone.Tags = append([]string{}, p.Tags...)
	}
	return &clone
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
