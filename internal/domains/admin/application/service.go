// Package application builds the read-only admin reports from the other contexts.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	orderports "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

const (
	DefaultSalesWindow = 30
	MaxSalesWindow     = 365
	RecentWindow       = 30 * 24 * time.Hour
	TopProductsLimit   = 5
	TopCustomersLimit  = 10
	unknownName        = "Unknown"
	uncategorized      = "uncategorized"
)

var ErrInvalidWindow = errkind.Tag(errkind.Validation, "days must be between 1 and 365")

// Sources groups the read models the reports aggregate.
type Sources struct {
	Orders        orderports.Reporting
	Catalog       ports.Catalog
	Customers     ports.Customers
	Newsletter    ports.ActiveCounter
	Subscriptions ports.ActiveCounter
}

type Service struct {
	src    Sources
	logger *slog.Logger
	now    func() time.Time
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

func NewService(src Sources, opts ...Option) *Service {
	s := &Service{src: src, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Dashboard(ctx context.Context) (*types.Dashboard, error) {
	out := &types.Dashboard{OrdersByStatus: map[string]int64{}}
	var err error
	if out.TotalUsers, err = s.src.Customers.CountUsers(ctx); err != nil {
		return nil, err
	}
	if out.TotalProducts, err = s.src.Catalog.CountActiveProducts(ctx); err != nil {
		return nil, err
	}
	if out.TotalOrders, err = s.src.Orders.CountOrders(ctx); err != nil {
		return nil, err
	}
	revenue, err := s.src.Orders.PaidRevenue(ctx)
	if err != nil {
		return nil, err
	}
	out.TotalRevenue = revenue.Round(2)
	byStatus, err := s.src.Orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for status, n := range byStatus {
		out.OrdersByStatus[string(status)] = n
	}
	if out.RecentOrders, err = s.src.Orders.CountOrdersSince(ctx, s.now().UTC().Add(-RecentWindow)); err != nil {
		return nil, err
	}
	top, err := s.src.Orders.TopProducts(ctx, TopProductsLimit)
	if err != nil {
		return nil, err
	}
	out.TopProducts = make([]types.ProductSales, 0, len(top))
	for _, p := range top {
		name := p.Name
		if product, ok := s.product(ctx, p.ProductID); ok {
			name = product.Name
		}
		if name == "" {
			name = unknownName
		}
		out.TopProducts = append(out.TopProducts, types.ProductSales{
			ProductID: p.ProductID,
			Name:      name,
			Units:     p.Units,
			Revenue:   p.Revenue.Round(2),
		})
	}
	if out.NewsletterSubscribers, err = s.src.Newsletter.CountActive(ctx); err != nil {
		return nil, err
	}
	if out.ActiveSubscriptions, err = s.src.Subscriptions.CountActive(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// SalesAnalytics reports paid orders per UTC day and per product category
// over the last days days. Zero selects DefaultSalesWindow.
func (s *Service) SalesAnalytics(ctx context.Context, days int) (*types.SalesAnalytics, error) {
	if days == 0 {
		days = DefaultSalesWindow
	}
	if days < 0 || days > MaxSalesWindow {
		return nil, ErrInvalidWindow
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	daily, err := s.src.Orders.DailyPaidSales(ctx, since)
	if err != nil {
		return nil, err
	}
	out := &types.SalesAnalytics{Days: days, DailySales: make([]types.DailySales, 0, len(daily))}
	for _, d := range daily {
		out.DailySales = append(out.DailySales, types.DailySales{Date: d.Date, Revenue: d.Revenue.Round(2), Orders: d.Orders})
	}

	sales, err := s.src.Orders.PaidProductSales(ctx, since)
	if err != nil {
		return nil, err
	}
	byCategory := map[string]*types.CategorySales{}
	for _, line := range sales {
		category := uncategorized
		if product, ok := s.product(ctx, line.ProductID); ok && product.Category != "" {
			category = product.Category
		}
		entry, ok := byCategory[category]
		if !ok {
			entry = &types.CategorySales{Category: category, Revenue: decimal.Zero}
			byCategory[category] = entry
		}
		entry.Revenue = entry.Revenue.Add(line.Revenue)
		entry.Units += line.Units
	}
	out.CategoryPerformance = make([]types.CategorySales, 0, len(byCategory))
	for _, entry := range byCategory {
		entry.Revenue = entry.Revenue.Round(2)
		out.CategoryPerformance = append(out.CategoryPerformance, *entry)
	}
	sort.Slice(out.CategoryPerformance, func(i, j int) bool {
		a, b := out.CategoryPerformance[i], out.CategoryPerformance[j]
		if a.Revenue.Equal(b.Revenue) {
			return a.Category < b.Category
		}
		return a.Revenue.GreaterThan(b.Revenue)
	})
	return out, nil
}

func (s *Service) CustomerAnalytics(ctx context.Context) (*types.CustomerAnalytics, error) {
	out := &types.CustomerAnalytics{RetentionRate: decimal.Zero}
	var err error
	if out.NewCustomers, err = s.src.Customers.CountUsersSince(ctx, s.now().UTC().Add(-RecentWindow)); err != nil {
		return nil, err
	}
	top, err := s.src.Orders.TopCustomers(ctx, TopCustomersLimit)
	if err != nil {
		return nil, err
	}
	out.TopCustomers = make([]types.CustomerSpend, 0, len(top))
	for _, c := range top {
		spend := types.CustomerSpend{
			UserID:     c.UserID,
			Name:       unknownName,
			Email:      unknownName,
			TotalSpent: c.TotalSpent.Round(2),
			Orders:     c.Orders,
		}
		if customer, ok := s.customer(ctx, c.UserID); ok {
			spend.Name, spend.Email = customer.Name, customer.Email
		}
		out.TopCustomers = append(out.TopCustomers, spend)
	}
	if out.RepeatCustomers, err = s.src.Orders.CountRepeatCustomers(ctx); err != nil {
		return nil, err
	}
	total, err := s.src.Customers.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		out.RetentionRate = decimal.NewFromInt(out.RepeatCustomers).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(total)).
			Round(2)
	}
	return out, nil
}

func (s *Service) product(ctx context.Context, id string) (*ports.Product, bool) {
	product, err := s.src.Catalog.Product(ctx, id)
	if err != nil {
		s.logLookup(ctx, "product", id, err)
		return nil, false
	}
	return product, true
}

func (s *Service) customer(ctx context.Context, id string) (*ports.Customer, bool) {
	customer, err := s.src.Customers.Customer(ctx, id)
	if err != nil {
		s.logLookup(ctx, "customer", id, err)
		return nil, false
	}
	return customer, true
}

func (s *Service) logLookup(ctx context.Context, kind, id string, err error) {
	if errors.Is(err, ports.ErrUnknown) {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "admin report lookup failed",
		slog.String("kind", kind), slog.String("id", id), slog.Any("error", err))
}

var _ ports.Service = (*Service)(nil)
