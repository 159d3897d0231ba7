package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application/types"
	reviewdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	reviewports "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/observability/service"

// Service decorates the reviews service with tracing, logging, and metrics.
type Service struct {
	inner   reviewports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	created metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m != nil {
			s.created, _ = m.Int64Counter("reviews.service.reviews_created", metric.WithDescription("Reviews written by customers"))
		}
	}
}

func New(inner reviewports.Service, opts ...Option) reviewports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateReview(ctx context.Context, userID string, input types.ReviewInput) (*reviewdomain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.CreateReview",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("product.id", input.ProductID)))
	defer span.End()

	result, err := s.inner.CreateReview(ctx, userID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create review", slog.String("product.id", input.ProductID))
	}
	if s.created != nil {
		s.created.Add(ctx, 1, metric.WithAttributes(attribute.Int("rating", result.Rating)))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "review created",
		slog.String("review.id", result.ID), slog.String("product.id", result.ProductID), slog.Int("rating", result.Rating))
	return result, nil
}

func (s *Service) UpdateReview(ctx context.Context, id, requesterID string, patch types.ReviewPatch) (*reviewdomain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.UpdateReview", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	result, err := s.inner.UpdateReview(ctx, id, requesterID, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update review", slog.String("review.id", id))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "review updated", slog.String("review.id", id), slog.Int("rating", result.Rating))
	return result, nil
}

func (s *Service) DeleteReview(ctx context.Context, id, requesterID string) error {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.DeleteReview", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	if err := s.inner.DeleteReview(ctx, id, requesterID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete review", slog.String("review.id", id))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "review deleted", slog.String("review.id", id))
	return nil
}

func (s *Service) MarkHelpful(ctx context.Context, id string) (*reviewdomain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.MarkHelpful", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	result, err := s.inner.MarkHelpful(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark review helpful", slog.String("review.id", id))
	}
	return result, nil
}

func (s *Service) ListProductReviews(ctx context.Context, productID string, page, limit int) (pagination.Page[types.ReviewView], error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.ListProductReviews", trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.ListProductReviews(ctx, productID, page, limit)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list product reviews", slog.String("product.id", productID))
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) ListUserReviews(ctx context.Context, userID string, page, limit int) (pagination.Page[types.ReviewView], error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.ListUserReviews", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	result, err := s.inner.ListUserReviews(ctx, userID, page, limit)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list user reviews", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

var _ reviewports.Service = (*Service)(nil)
