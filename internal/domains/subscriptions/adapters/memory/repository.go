package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu   sync.RWMutex
	subs map[string]*domain.Subscription
}

func NewRepository() *Repository {
	return &Repository{subs: map[string]*domain.Subscription{}}
}

func (r *Repository) Create(_ context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := s.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.subs[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) Get(_ context.Context, id, userID string) (*domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subs[id]
	if !ok || s.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *Repository) Save(_ context.Context, s *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.subs[s.ID]
	if !ok || existing.UserID != s.UserID {
		return ports.ErrNotFound
	}
	r.subs[s.ID] = s.Clone()
	return nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*domain.Subscription, error) {
	r.mu.RLock()
	out := make([]*domain.Subscription, 0)
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s.Clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, s := range r.subs {
		if s.Status == domain.StatusActive {
			n++
		}
	}
	return n, nil
}
