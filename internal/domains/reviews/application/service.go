package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const (
	DefaultPageSize = 10
	anonymous       = "Anonymous"
	unknownProduct  = "Unknown"
)

// Service guards review ownership and keeps the product rating aggregate in
// step with the stored reviews.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	authors ports.Authors
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

// WithAuthors resolves reviewer names for product listings.
func WithAuthors(authors ports.Authors) Option {
	return func(s *Service) { s.authors = authors }
}

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
	s := &Service{
		repo:    repo,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateReview stores the review and adds its rating to the product.
func (s *Service) CreateReview(ctx context.Context, userID string, input types.ReviewInput) (*domain.Review, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	now := s.now().UTC()
	review := &domain.Review{
		UserID:     userID,
		ProductID:  input.ProductID,
		Rating:     input.Rating,
		Title:      input.Title,
		Comment:    input.Comment,
		IsVerified: input.IsVerified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	review.Normalize()
	if err := review.Validate(); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.catalog.ProductName(ctx, review.ProductID); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.AddRating(ctx, created.ProductID, created.Rating); err != nil {
		// Without the rating the review would skew the aggregate; take it back.
		if delErr := s.repo.Delete(context.WithoutCancel(ctx), created.ID); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}
	return created, nil
}

// UpdateReview applies patch for the author. A changed rating leaves the
// aggregate as remove(old) then add(new) around the write.
func (s *Service) UpdateReview(ctx context.Context, id, requesterID string, patch types.ReviewPatch) (*domain.Review, error) {
	current, err := s.owned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	updated := current.Clone()
	if patch.Rating != nil {
		updated.Rating = *patch.Rating
	}
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Comment != nil {
		updated.Comment = *patch.Comment
	}
	updated.UpdatedAt = s.now().UTC()
	updated.Normalize()
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}

	if updated.Rating == current.Rating {
		return s.repo.Update(ctx, updated, current.Rating)
	}
	if err := s.catalog.RemoveRating(ctx, current.ProductID, current.Rating); err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, updated, current.Rating)
	if err != nil {
		// A concurrent delete already removed the old rating with the review.
		if errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		if restoreErr := s.catalog.AddRating(context.WithoutCancel(ctx), current.ProductID, current.Rating); restoreErr != nil {
			return nil, errors.Join(err, restoreErr)
		}
		return nil, err
	}
	if err := s.catalog.AddRating(ctx, saved.ProductID, saved.Rating); err != nil {
		s.logger.ErrorContext(ctx, "rating aggregate missing updated review",
			slog.String("review.id", saved.ID),
			slog.String("product.id", saved.ProductID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return saved, nil
}

// DeleteReview removes the author's review and its rating.
func (s *Service) DeleteReview(ctx context.Context, id, requesterID string) error {
	review, err := s.owned(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, review.ID); err != nil {
		return err
	}
	return s.catalog.RemoveRating(ctx, review.ProductID, review.Rating)
}

func (s *Service) MarkHelpful(ctx context.Context, id string) (*domain.Review, error) {
	return s.repo.IncrementHelpful(ctx, strings.TrimSpace(id))
}

// ListProductReviews pages a product's reviews newest first with author names.
func (s *Service) ListProductReviews(ctx context.Context, productID string, page, limit int) (pagination.Page[types.ReviewView], error) {
	req := pagination.New(page, limit, DefaultPageSize)
	reviews, total, err := s.repo.ListByProduct(ctx, strings.TrimSpace(productID), req)
	if err != nil {
		return pagination.Page[types.ReviewView]{}, err
	}
	names := map[string]string{}
	if s.authors != nil && len(reviews) > 0 {
		ids := make([]string, 0, len(reviews))
		for _, r := range reviews {
			ids = append(ids, r.UserID)
		}
		if names, err = s.authors.Names(ctx, ids); err != nil {
			return pagination.Page[types.ReviewView]{}, err
		}
	}
	views := make([]types.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		name, ok := names[r.UserID]
		if !ok || name == "" {
			name = anonymous
		}
		views = append(views, types.ReviewView{Review: r, UserName: name})
	}
	return pagination.NewPage(views, total, req), nil
}

// ListUserReviews pages the user's own reviews with product names.
func (s *Service) ListUserReviews(ctx context.Context, userID string, page, limit int) (pagination.Page[types.ReviewView], error) {
	req := pagination.New(page, limit, DefaultPageSize)
	reviews, total, err := s.repo.ListByUser(ctx, userID, req)
	if err != nil {
		return pagination.Page[types.ReviewView]{}, err
	}
	views := make([]types.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		name, err := s.catalog.ProductName(ctx, r.ProductID)
		if errors.Is(err, ports.ErrProductNotFound) {
			name = unknownProduct
		} else if err != nil {
			return pagination.Page[types.ReviewView]{}, err
		}
		views = append(views, types.ReviewView{Review: r, ProductName: name})
	}
	return pagination.NewPage(views, total, req), nil
}

func (s *Service) owned(ctx context.Context, id, requesterID string) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !review.OwnedBy(requesterID) {
		return nil, ports.ErrUnauthorized
	}
	return review, nil
}

var _ ports.Service = (*Service)(nil)
