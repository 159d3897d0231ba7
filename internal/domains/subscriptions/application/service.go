package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/ports"
)

const unknownProduct = "Unknown"

type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create snapshots the product price and schedules the first delivery.
func (s *Service) Create(ctx context.Context, input types.CreateInput) (*domain.Subscription, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	frequency, err := domain.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	product, err := s.catalog.Product(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	sub, err := domain.New(input.UserID, product.ID, input.Quantity, frequency, product.Price, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "subscription created",
		slog.String("subscription_id", created.ID),
		slog.String("product_id", created.ProductID),
		slog.String("frequency", string(created.Frequency)),
	)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, patch types.Patch) (*domain.Subscription, error) {
	var frequency domain.Frequency
	if patch.Frequency != nil {
		f, err := domain.ParseFrequency(*patch.Frequency)
		if err != nil {
			return nil, mapError(err)
		}
		frequency = f
	}
	return s.mutate(ctx, id, userID, func(sub *domain.Subscription, now time.Time) error {
		if patch.Quantity != nil {
			if err := sub.SetQuantity(*patch.Quantity, now); err != nil {
				return err
			}
		}
		if frequency != "" {
			return sub.SetFrequency(frequency, now)
		}
		return nil
	})
}

func (s *Service) Pause(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	return s.mutate(ctx, id, userID, (*domain.Subscription).Pause)
}

func (s *Service) Resume(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	return s.mutate(ctx, id, userID, (*domain.Subscription).Resume)
}

func (s *Service) Cancel(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	return s.mutate(ctx, id, userID, func(sub *domain.Subscription, now time.Time) error {
		sub.Cancel(now)
		return nil
	})
}

// List resolves product names; products since removed from the catalog
// display as "Unknown".
func (s *Service) List(ctx context.Context, userID string) ([]types.View, error) {
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(subs))
	views := make([]types.View, 0, len(subs))
	for _, sub := range subs {
		name, ok := names[sub.ProductID]
		if !ok {
			name = s.productName(ctx, sub.ProductID)
			names[sub.ProductID] = name
		}
		views = append(views, types.View{Subscription: sub, ProductName: name})
	}
	return views, nil
}

func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}

func (s *Service) productName(ctx context.Context, productID string) string {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		if !errors.Is(err, ports.ErrProductNotFound) {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "subscription product lookup failed",
				slog.String("product_id", productID), slog.Any("error", err))
		}
		return unknownProduct
	}
	return product.Name
}

func (s *Service) mutate(ctx context.Context, id, userID string, fn func(*domain.Subscription, time.Time) error) (*domain.Subscription, error) {
	sub, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(sub, s.now().UTC()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

var _ ports.Service = (*Service)(nil)
