package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

const (
	// DefaultUserPageSize applies to a customer's own order history.
	DefaultUserPageSize = 10
	// DefaultAdminPageSize applies to the admin order listing.
	DefaultAdminPageSize = 20
)

var (
	_ ports.Service        = (*Service)(nil)
	_ ports.PlacementSteps = (*Service)(nil)
)

// Service orchestrates the order lifecycle.
type Service struct {
	repo            ports.Repository
	inventory       ports.Inventory
	cart            ports.CartClearer
	idempotency     ports.IdempotencyStore
	logger          *slog.Logger
	pricePolicy     types.PricePolicy
	statusPolicy    types.StatusPolicy
	defaultShipping decimal.Decimal
	now             func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithPricePolicy selects whose unit prices are charged.
func WithPricePolicy(p types.PricePolicy) Option {
	return func(s *Service) {
		if p == types.PriceFromCatalog || p == types.PriceFromRequest {
			s.pricePolicy = p
		}
	}
}

// WithStatusPolicy selects how admin status updates are checked.
func WithStatusPolicy(p types.StatusPolicy) Option {
	return func(s *Service) {
		if p == types.StatusStrict || p == types.StatusPermissive {
			s.statusPolicy = p
		}
	}
}

// WithDefaultShipping overrides the shipping cost used when checkout omits one.
func WithDefaultShipping(cost decimal.Decimal) Option {
	return func(s *Service) {
		if !cost.IsNegative() {
			s.defaultShipping = cost
		}
	}
}

// WithIdempotencyStore enables replay of checkouts that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithLogger records best-effort failures such as cart clearing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, inventory ports.Inventory, cart ports.CartClearer, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		inventory:       inventory,
		cart:            cart,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		pricePolicy:     types.PriceFromRequest,
		statusPolicy:    types.StatusPermissive,
		defaultShipping: domain.DefaultShippingCost,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder runs every checkout step synchronously. A failed reservation
// leaves no order behind and a failed write releases the reservation.
// With an idempotency key the key is claimed for the user before any stock
// moves, so concurrent retries place at most one order.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.placeOrder(ctx, input, nil)
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(ErrMissingUserID)
	}
	fingerprint, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	record, claimed, err := s.idempotency.Claim(ctx, ports.IdempotencyRecord{
		UserID:      userID,
		Key:         key,
		RequestHash: fingerprint,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return s.replay(ctx, record, fingerprint)
	}

	order, err := s.placeOrder(ctx, input, func(saved *domain.Order) {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), userID, key, saved.ID); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "complete idempotency key failed",
				slog.String("order_id", saved.ID), slog.Any("error", err))
		}
	})
	if err != nil {
		if relErr := s.idempotency.Release(context.WithoutCancel(ctx), userID, key); relErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "release idempotency key failed",
				slog.String("user_id", userID), slog.Any("error", relErr))
		}
		return nil, err
	}
	return order, nil
}

// placeOrder reserves, persists and clears the cart. persisted runs once the
// order is stored, before the cart is cleared.
func (s *Service) placeOrder(ctx context.Context, input types.PlaceOrderInput, persisted func(*domain.Order)) (*domain.Order, error) {
	order, err := s.PrepareOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.ReserveInventory(ctx, order); err != nil {
		return nil, err
	}
	saved, err := s.PersistOrder(ctx, order)
	if err != nil {
		if relErr := s.ReleaseInventory(context.WithoutCancel(ctx), order); relErr != nil {
			return nil, errors.Join(err, relErr)
		}
		return nil, err
	}
	if persisted != nil {
		persisted(saved)
	}
	if err := s.ClearCart(ctx, saved.UserID); err != nil {
		s.logger.WarnContext(ctx, "clear cart after checkout failed", "user_id", saved.UserID, "order_id", saved.ID, "error", err)
	}
	return saved, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, fingerprint string) (*domain.Order, error) {
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	if record.Pending() {
		return nil, ports.ErrIdempotencyInProgress
	}
	return s.repo.GetByID(ctx, record.OrderID)
}

// PrepareOrder validates the checkout, checks every product before any
// write and computes the frozen amounts. Nothing is stored.
func (s *Service) PrepareOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(ErrMissingUserID)
	}
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}
	items := make([]domain.Item, 0, len(input.Items))
	for _, in := range input.Items {
		item := domain.Item{
			ProductID: strings.TrimSpace(in.ProductID),
			Name:      strings.TrimSpace(in.Name),
			Price:     in.Price,
			Quantity:  in.Quantity,
		}
		if err := item.Validate(); err != nil {
			return nil, mapError(err)
		}
		items = append(items, item)
	}
	if err := input.ShippingAddress.Validate("shipping"); err != nil {
		return nil, mapError(err)
	}
	billing := input.ShippingAddress
	if input.BillingAddress != nil && !input.BillingAddress.IsZero() {
		if err := input.BillingAddress.Validate("billing"); err != nil {
			return nil, mapError(err)
		}
		billing = *input.BillingAddress
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		return nil, mapError(domain.ErrMissingPaymentMethod)
	}

	if err := s.checkProducts(ctx, items); err != nil {
		return nil, err
	}

	shipping := s.defaultShipping
	if input.ShippingCost != nil {
		shipping = *input.ShippingCost
	}
	// Checkout never applies a discount.
	totals, err := domain.ComputeTotals(items, shipping, decimal.Zero)
	if err != nil {
		return nil, mapError(err)
	}

	now := s.now().UTC()
	number, err := domain.NewOrderNumber(now)
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}
	return &domain.Order{
		UserID:          userID,
		OrderNumber:     number,
		Items:           items,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentPending,
		Status:          domain.StatusPending,
		History:         []domain.HistoryEntry{{Status: domain.StatusPending, Timestamp: now, Note: domain.NotePlaced}},
		Notes:           strings.TrimSpace(input.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// checkProducts resolves every line against the catalog, filling in the
// name snapshot and, under the catalog price policy, the unit price.
func (s *Service) checkProducts(ctx context.Context, items []domain.Item) error {
	requested := make(map[string]int, len(items))
	for i := range items {
		item := &items[i]
		product, err := s.inventory.Lookup(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, errkind.NotFound) {
				return fmt.Errorf("%w: %s", ports.ErrProductNotFound, item.ProductID)
			}
			return err
		}
		requested[item.ProductID] += item.Quantity
		if product.Stock < requested[item.ProductID] {
			return &StockError{
				ProductID: item.ProductID,
				Name:      product.Name,
				Requested: requested[item.ProductID],
				Available: product.Stock,
			}
		}
		if s.pricePolicy == types.PriceFromCatalog {
			item.Price = product.Price
		}
		if item.Name == "" {
			item.Name = product.Name
		}
	}
	return nil
}

// ReserveInventory takes stock for every line or none.
func (s *Service) ReserveInventory(ctx context.Context, order *domain.Order) error {
	return s.inventory.Reserve(ctx, stockLines(order))
}

// PersistOrder stores a prepared order.
func (s *Service) PersistOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return s.repo.Create(ctx, order)
}

// ReleaseInventory returns the stock held for every line.
func (s *Service) ReleaseInventory(ctx context.Context, order *domain.Order) error {
	return s.inventory.Release(ctx, stockLines(order))
}

// ClearCart empties the buyer's cart.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	if s.cart == nil {
		return nil
	}
	return s.cart.Clear(ctx, userID)
}

func (s *Service) GetOrder(ctx context.Context, id string, requester types.Requester) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && order.UserID != requester.UserID {
		return nil, ports.ErrUnauthorized
	}
	return order, nil
}

func (s *Service) ListUserOrders(ctx context.Context, userID string, page, limit int) (pagination.Page[*domain.Order], error) {
	req := pagination.New(page, limit, DefaultUserPageSize)
	orders, total, err := s.repo.ListByUser(ctx, userID, req)
	if err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	return pagination.NewPage(orders, total, req), nil
}

func (s *Service) ListOrders(ctx context.Context, query types.ListOrdersQuery) (pagination.Page[*domain.Order], error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(string(query.Status))))
	if status != "" && !domain.ValidStatus(status) {
		return pagination.Page[*domain.Order]{}, mapError(domain.ErrInvalidStatus)
	}
	req := pagination.New(query.Page, query.Limit, DefaultAdminPageSize)
	orders, total, err := s.repo.List(ctx, status, req)
	if err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	return pagination.NewPage(orders, total, req), nil
}

func (s *Service) TrackOrder(ctx context.Context, orderNumber string) (*types.Tracking, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	if orderNumber == "" {
		return nil, mapError(ErrMissingOrderNumber)
	}
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return &types.Tracking{
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		TrackingNumber:  order.TrackingNumber,
		TrackingCarrier: order.TrackingCarrier,
		History:         append([]domain.HistoryEntry(nil), order.History...),
		CreatedAt:       order.CreatedAt,
	}, nil
}

// CancelOrder cancels the requester's own pending or processing order and
// restocks every line. The write is conditional on the status read, so two
// racing cancels restock once. A failed restock is logged and the cancelled
// order is still returned.
func (s *Service) CancelOrder(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, ports.ErrUnauthorized
	}
	from := order.Status
	if err := order.Cancel(s.now()); err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, order, from)
	if err != nil {
		return nil, err
	}
	if err := s.ReleaseInventory(context.WithoutCancel(ctx), saved); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "restock cancelled order failed",
			slog.String("order_id", saved.ID),
			slog.String("order_number", saved.OrderNumber),
			slog.Any("error", err))
	}
	return saved, nil
}

// AddTracking records the shipment and forces the order to shipped.
func (s *Service) AddTracking(ctx context.Context, id, trackingNumber, carrier string) (*domain.Order, error) {
	return s.mutate(ctx, id, func(order *domain.Order, at time.Time) error {
		return order.AddTracking(trackingNumber, carrier, at)
	})
}

// UpdateOrderStatus sets any known status under the permissive policy and
// enforces the lifecycle table under the strict one.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status, note string) (*domain.Order, error) {
	status = domain.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !domain.ValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	note = strings.TrimSpace(note)
	return s.mutate(ctx, id, func(order *domain.Order, at time.Time) error {
		if s.statusPolicy == types.StatusStrict {
			return order.TransitionStrict(status, note, at)
		}
		return order.Transition(status, note, at)
	})
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	status = domain.PaymentStatus(strings.ToLower(strings.TrimSpace(string(status))))
	return s.mutate(ctx, id, func(order *domain.Order, at time.Time) error {
		return order.SetPaymentStatus(status, at)
	})
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*domain.Order, time.Time) error) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := apply(order, s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, order, from)
}

func stockLines(order *domain.Order) []ports.StockLine {
	lines := make([]ports.StockLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ports.StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
