package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Store = (*Repository)(nil)

// Repository is an in-memory product store. Every stock and rating movement
// happens under one lock, which makes each of them atomic.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	slugs    map[string]string
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		products: map[string]*domain.Product{},
		slugs:    map[string]string{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.slugs[clone.Slug]; ok && owner != clone.ID {
		return nil, ports.ErrDuplicateSlug
	}
	now := r.now()
	if existing, ok := r.products[clone.ID]; ok && clone.ID != "" {
		clone.Stock = existing.Stock
		clone.AverageRating = existing.AverageRating
		clone.TotalReviews = existing.TotalReviews
		clone.RatingTotal = existing.RatingTotal
		clone.CreatedAt = existing.CreatedAt
		if existing.Slug != clone.Slug {
			delete(r.slugs, existing.Slug)
		}
	} else {
		if clone.ID == "" {
			clone.ID = uuid.NewString()
		}
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.products[clone.ID] = clone
	r.slugs[clone.Slug] = clone.ID
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

// GetBySlug only resolves active products.
func (r *Repository) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.slugs[slug]
	if !ok {
		return nil, ports.ErrNotFound
	}
	product := r.products[id]
	if !product.IsActive {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter types.ProductFilter, page pagination.Request) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if matches(product, filter) {
			matched = append(matched, product.Clone())
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, filter.Sort)
	return pagination.Slice(matched, page), int64(len(matched)), nil
}

func (r *Repository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, product := range r.products {
		if product.IsActive {
			seen[product.Category] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (r *Repository) Tags(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, product := range r.products {
		if !product.IsActive {
			continue
		}
		for _, tag := range product.Tags {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (r *Repository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, product := range r.products {
		if product.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *Repository) Reserve(_ context.Context, productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	if err := product.Reserve(qty); err != nil {
		return err
	}
	product.UpdatedAt = r.now()
	return nil
}

func (r *Repository) Release(_ context.Context, productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	if err := product.Release(qty); err != nil {
		return err
	}
	product.UpdatedAt = r.now()
	return nil
}

func (r *Repository) ApplyRating(_ context.Context, productID string, rating int, direction domain.RatingDirection) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := product.ApplyRating(rating, direction); err != nil {
		return nil, err
	}
	product.UpdatedAt = r.now()
	return product.Clone(), nil
}

func matches(p *domain.Product, f types.ProductFilter) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(p.Tags, f.Tags) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Tags, " "))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func sortProducts(list []*domain.Product, order types.SortOrder) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch order {
		case types.SortPriceAsc:
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
		case types.SortPriceDesc:
			if !a.Price.Equal(b.Price) {
				return a.Price.GreaterThan(b.Price)
			}
		case types.SortRating:
			if !a.AverageRating.Equal(b.AverageRating) {
				return a.AverageRating.GreaterThan(b.AverageRating)
			}
		case types.SortName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
