package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu          sync.RWMutex
	subscribers map[string]*domain.Subscriber
}

func NewRepository() *Repository {
	return &Repository{subscribers: map[string]*domain.Subscriber{}}
}

func (r *Repository) Create(_ context.Context, s *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[s.Email]; ok {
		return ports.ErrAlreadyExists
	}
	r.subscribers[s.Email] = s.Clone()
	return nil
}

func (r *Repository) Get(_ context.Context, email string) (*domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subscribers[email]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *Repository) Save(_ context.Context, s *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[s.Email]; !ok {
		return ports.ErrNotFound
	}
	r.subscribers[s.Email] = s.Clone()
	return nil
}

// List returns subscribers in signup order.
func (r *Repository) List(_ context.Context, activeOnly bool, page pagination.Request) (pagination.Page[*domain.Subscriber], error) {
	r.mu.RLock()
	matched := make([]*domain.Subscriber, 0, len(r.subscribers))
	for _, s := range r.subscribers {
		if activeOnly && !s.IsActive {
			continue
		}
		matched = append(matched, s.Clone())
	}
	r.mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SubscribedAt.Equal(matched[j].SubscribedAt) {
			return matched[i].Email < matched[j].Email
		}
		return matched[i].SubscribedAt.Before(matched[j].SubscribedAt)
	})
	return pagination.NewPage(pagination.Slice(matched, page), int64(len(matched)), page), nil
}

func (r *Repository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, s := range r.subscribers {
		if s.IsActive {
			n++
		}
	}
	return n, nil
}
