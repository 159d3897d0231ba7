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

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.String("user.id", input.UserID), attribute.Int("order.lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("user.id", input.UserID), slog.Int("order.lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordPlaced(ctx, errkind.Code(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("user.id", input.UserID))
	}
	s.metrics.recordPlaced(ctx, "ok")
	span.SetAttributes(attribute.String("order.number", result.OrderNumber))
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID),
		slog.String("order.number", result.OrderNumber),
		slog.String("order.total", result.Total.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string, requester types.Requester) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id, requester)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID string, page, limit int) (pagination.Page[*orderdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListUserOrders",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.Int("page", page)))
	defer span.End()

	result, err := s.inner.ListUserOrders(ctx, userID, page, limit)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list user orders", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, query types.ListOrdersQuery) (pagination.Page[*orderdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(attribute.String("filter.status", string(query.Status)), attribute.Int("page", query.Page)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, query)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) TrackOrder(ctx context.Context, orderNumber string) (*types.Tracking, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.TrackOrder", trace.WithAttributes(attribute.String("order.number", orderNumber)))
	defer span.End()

	result, err := s.inner.TrackOrder(ctx, orderNumber)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to track order", slog.String("order.number", orderNumber))
	}
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id, requesterID string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.CancelOrder(ctx, id, requesterID)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", id))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", id), slog.String("order.number", result.OrderNumber))
	return result, nil
}

func (s *Service) AddTracking(ctx context.Context, id, trackingNumber, carrier string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.AddTracking",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("tracking.carrier", carrier)))
	defer span.End()

	result, err := s.inner.AddTracking(ctx, id, trackingNumber, carrier)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add tracking", slog.String("order.id", id))
	}
	s.logInfo(ctx, "tracking added", slog.String("order.id", id), slog.String("tracking.number", result.TrackingNumber))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status orderdomain.Status, note string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	result, err := s.inner.UpdateOrderStatus(ctx, id, status, note)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id), slog.String("order.status", string(status)))
	}
	s.logInfo(ctx, "order status updated", slog.String("order.id", id), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status orderdomain.PaymentStatus) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdatePaymentStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("payment.status", string(status))))
	defer span.End()

	result, err := s.inner.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update payment status", slog.String("order.id", id))
	}
	s.logInfo(ctx, "payment status updated", slog.String("order.id", id), slog.String("payment.status", string(result.PaymentStatus)))
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
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Checkout attempts by outcome"))
	ordersCancelled, _ := m.Int64Counter("orders.service.orders_cancelled", metric.WithDescription("Orders cancelled by customers"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersCancelled: ordersCancelled}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, outcome string) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
