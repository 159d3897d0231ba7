package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps reviews in memory with a (user, product) index that
// enforces one review per pair.
type Repository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review
	pairs   map[pairKey]string
}

type pairKey struct {
	userID    string
	productID string
}

func NewRepository() *Repository {
	return &Repository{reviews: map[string]*domain.Review{}, pairs: map[pairKey]string{}}
}

func (r *Repository) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID: review.UserID, productID: review.ProductID}
	if _, exists := r.pairs[key]; exists {
		return nil, ports.ErrDuplicateReview
	}
	stored := review.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
		stored.UpdatedAt = stored.CreatedAt
	}
	r.reviews[stored.ID] = stored
	r.pairs[key] = stored.ID
	return stored.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return review.Clone(), nil
}

func (r *Repository) Update(_ context.Context, review *domain.Review, fromRating int) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reviews[review.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Rating != fromRating {
		return nil, ports.ErrConcurrentUpdate
	}
	stored.Rating = review.Rating
	stored.Title = review.Title
	stored.Comment = review.Comment
	stored.UpdatedAt = review.UpdatedAt
	return stored.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.pairs, pairKey{userID: review.UserID, productID: review.ProductID})
	delete(r.reviews, id)
	return nil
}

func (r *Repository) IncrementHelpful(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	review.Helpful++
	return review.Clone(), nil
}

func (r *Repository) ListByProduct(_ context.Context, productID string, page pagination.Request) ([]*domain.Review, int64, error) {
	return r.list(func(rv *domain.Review) bool { return rv.ProductID == productID }, page)
}

func (r *Repository) ListByUser(_ context.Context, userID string, page pagination.Request) ([]*domain.Review, int64, error) {
	return r.list(func(rv *domain.Review) bool { return rv.UserID == userID }, page)
}

func (r *Repository) list(match func(*domain.Review) bool, page pagination.Request) ([]*domain.Review, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Review, 0)
	for _, review := range r.reviews {
		if match(review) {
			matched = append(matched, review.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pagination.Slice(matched, page), int64(len(matched)), nil
}
