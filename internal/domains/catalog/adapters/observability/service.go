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

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("product.slug", input.Slug)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.slug", input.Slug))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.slug", input.Slug))
	}
	s.metrics.recordCreated(ctx, result.Category)
	s.logInfo(ctx, "product created", slog.String("product.id", result.ID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch types.ProductPatch) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", id))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductBySlug", trace.WithAttributes(attribute.String("product.slug", slug)))
	defer span.End()

	result, err := s.inner.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.slug", slug))
	}
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context, query types.ListProductsQuery) (pagination.Page[*catalogdomain.Product], error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts",
		trace.WithAttributes(attribute.String("filter.category", query.Filter.Category), attribute.Int("page", query.Page)))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, query)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.logInfo(ctx, "product deactivated", slog.String("product.id", id))
	return nil
}

func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AdjustStock",
		trace.WithAttributes(attribute.String("product.id", id), attribute.Int("stock.delta", delta)))
	defer span.End()

	result, err := s.inner.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust stock", slog.String("product.id", id), slog.Int("stock.delta", delta))
	}
	s.logInfo(ctx, "stock adjusted", slog.String("product.id", id), slog.Int("stock", result.Stock))
	return result, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Categories")
	defer span.End()

	result, err := s.inner.Categories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	return result, nil
}

func (s *Service) Tags(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Tags")
	defer span.End()

	result, err := s.inner.Tags(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list tags")
	}
	return result, nil
}

func (s *Service) ReserveStock(ctx context.Context, lines []types.StockLine) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ReserveStock", trace.WithAttributes(attribute.Int("lines", len(lines))))
	defer span.End()

	if err := s.inner.ReserveStock(ctx, lines); err != nil {
		s.metrics.recordReservation(ctx, errkind.Code(err))
		return s.handleError(ctx, span, err, "failed to reserve stock", slog.Int("lines", len(lines)))
	}
	s.metrics.recordReservation(ctx, "ok")
	return nil
}

func (s *Service) ReleaseStock(ctx context.Context, lines []types.StockLine) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ReleaseStock", trace.WithAttributes(attribute.Int("lines", len(lines))))
	defer span.End()

	if err := s.inner.ReleaseStock(ctx, lines); err != nil {
		return s.handleError(ctx, span, err, "failed to release stock", slog.Int("lines", len(lines)))
	}
	s.logInfo(ctx, "stock released", slog.Int("lines", len(lines)))
	return nil
}

func (s *Service) ApplyRating(ctx context.Context, productID string, rating int, direction catalogdomain.RatingDirection) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ApplyRating",
		trace.WithAttributes(
			attribute.String("product.id", productID),
			attribute.Int("rating", rating),
			attribute.String("rating.direction", string(direction)),
		))
	defer span.End()

	result, err := s.inner.ApplyRating(ctx, productID, rating, direction)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to apply rating", slog.String("product.id", productID))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	reservations    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsCreated, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	reservations, _ := m.Int64Counter("catalog.service.stock_reserved", metric.WithDescription("Stock reservation attempts by outcome"))
	return serviceMetrics{productsCreated: productsCreated, reservations: reservations}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category string) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", category)))
	}
}

func (m serviceMetrics) recordReservation(ctx context.Context, outcome string) {
	if m.reservations != nil {
		m.reservations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ catalogports.Service = (*Service)(nil)
