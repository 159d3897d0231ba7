package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/application/types"
	userdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	userports "github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	s.metrics.recordRegistered(ctx)
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.logInfo(ctx, "user registered", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLogin(ctx, errkind.Code(err))
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx, "ok")
	span.SetAttributes(attribute.String("user.id", result.User.ID))
	s.logInfo(ctx, "user logged in", slog.String("user.id", result.User.ID))
	return result, nil
}

// Authenticate runs on every authenticated request, so it only traces.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	principal, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return principal, err
	}
	span.SetAttributes(attribute.String("user.id", principal.UserID), attribute.String("user.role", principal.Role))
	return principal, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, tokenID); err != nil {
		return s.handleError(ctx, span, err, "failed to revoke session")
	}
	s.logInfo(ctx, "session revoked")
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load profile", slog.String("user.id", userID))
	}
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, patch types.ProfilePatch) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.String("user.id", userID))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.ChangePassword", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	if err := s.inner.ChangePassword(ctx, userID, current, next); err != nil {
		return s.handleError(ctx, span, err, "failed to change password", slog.String("user.id", userID))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "password changed", slog.String("user.id", userID))
	return nil
}

func (s *Service) AddAddress(ctx context.Context, userID string, addr userdomain.Address) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.AddAddress", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.AddAddress(ctx, userID, addr)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add address", slog.String("user.id", userID))
	}
	return result, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, addr userdomain.Address) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateAddress",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("address.id", addressID)))
	defer span.End()
	result, err := s.inner.UpdateAddress(ctx, userID, addressID, addr)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update address", slog.String("user.id", userID), slog.String("address.id", addressID))
	}
	return result, nil
}

func (s *Service) RemoveAddress(ctx context.Context, userID, addressID string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.RemoveAddress",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("address.id", addressID)))
	defer span.End()
	result, err := s.inner.RemoveAddress(ctx, userID, addressID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove address", slog.String("user.id", userID), slog.String("address.id", addressID))
	}
	return result, nil
}

func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.AddToWishlist",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("product.id", productID)))
	defer span.End()
	result, err := s.inner.AddToWishlist(ctx, userID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add to wishlist", slog.String("product.id", productID))
	}
	return result, nil
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.RemoveFromWishlist",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("product.id", productID)))
	defer span.End()
	result, err := s.inner.RemoveFromWishlist(ctx, userID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove from wishlist", slog.String("product.id", productID))
	}
	return result, nil
}

func (s *Service) Wishlist(ctx context.Context, userID string) ([]userports.Product, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Wishlist", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()
	result, err := s.inner.Wishlist(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load wishlist", slog.String("user.id", userID))
	}
	span.SetAttributes(attribute.Int("wishlist.size", len(result)))
	return result, nil
}

func (s *Service) InWishlist(ctx context.Context, userID, productID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.InWishlist",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("product.id", productID)))
	defer span.End()
	result, err := s.inner.InWishlist(ctx, userID, productID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check wishlist", slog.String("product.id", productID))
	}
	return result, nil
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) (pagination.Page[*userdomain.User], error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ListUsers", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()
	result, err := s.inner.ListUsers(ctx, page, limit)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int64("result.total", result.Total))
	return result, nil
}

func (s *Service) UpdateRole(ctx context.Context, userID, role string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateRole",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.String("user.role", role)))
	defer span.End()
	result, err := s.inner.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update role", slog.String("user.id", userID), slog.String("user.role", role))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "user role updated", slog.String("user.id", userID), slog.String("user.role", result.Role))
	return result, nil
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.inner.CountUsers(ctx)
}

func (s *Service) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	return s.inner.CountUsersSince(ctx, since)
}

func (s *Service) Names(ctx context.Context, ids []string) (map[string]string, error) {
	return s.inner.Names(ctx, ids)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registered metric.Int64Counter
	updated    metric.Int64Counter
	logins     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of users registered"))
	updated, _ := m.Int64Counter("users.service.updated", metric.WithDescription("Number of user profile changes"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Login attempts by outcome"))
	return serviceMetrics{registered: registered, updated: updated, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.updated != nil {
		m.updated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context, outcome string) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
