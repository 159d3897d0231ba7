package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const DefaultPageSize = 50

type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Subscribe creates a signup, reactivates a lapsed one, or reports that the
// address is already subscribed.
func (s *Service) Subscribe(ctx context.Context, email, name string) (domain.Outcome, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return "", mapError(err)
	}
	now := s.now().UTC()
	existing, err := s.repo.Get(ctx, email)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		created := &domain.Subscriber{
			Email:        email,
			Name:         strings.TrimSpace(name),
			IsActive:     true,
			SubscribedAt: now,
			UpdatedAt:    now,
		}
		if err := s.repo.Create(ctx, created); err != nil {
			if errors.Is(err, ports.ErrAlreadyExists) {
				return domain.AlreadySubscribed, nil
			}
			return "", err
		}
		return domain.Subscribed, nil
	case err != nil:
		return "", err
	}
	if !existing.Reactivate(now) {
		return domain.AlreadySubscribed, nil
	}
	if err := s.repo.Save(ctx, existing); err != nil {
		return "", err
	}
	return domain.Reactivated, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return mapError(domain.ErrInvalidEmail)
	}
	existing, err := s.repo.Get(ctx, email)
	if err != nil {
		return err
	}
	existing.Deactivate(s.now().UTC())
	return s.repo.Save(ctx, existing)
}

func (s *Service) ListSubscribers(ctx context.Context, activeOnly bool, page, limit int) (pagination.Page[*domain.Subscriber], error) {
	return s.repo.List(ctx, activeOnly, pagination.New(page, limit, DefaultPageSize))
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

var _ ports.Service = (*Service)(nil)
