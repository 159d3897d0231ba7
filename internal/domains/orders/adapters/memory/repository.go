package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Reporting  = (*Repository)(nil)
)

// Repository provides an in-memory implementation for development and tests.
type Repository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	numbers map[string]string
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		orders:  map[string]*domain.Order{},
		numbers: map[string]string{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.numbers[order.OrderNumber]; exists {
		return nil, ports.ErrDuplicateOrderNumber
	}
	stored := order.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := r.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.orders[stored.ID] = stored
	r.numbers[stored.OrderNumber] = stored.ID
	return stored.Clone(), nil
}

// Update replaces the mutable fields when the stored status still equals from.
// Items, amounts and addresses are frozen and never rewritten.
func (r *Repository) Update(_ context.Context, order *domain.Order, from domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status != from {
		return nil, ports.ErrConcurrentUpdate
	}
	if len(order.History) > len(stored.History) {
		stored.History = append(stored.History, order.History[len(stored.History):]...)
	}
	stored.Status = order.Status
	stored.PaymentStatus = order.PaymentStatus
	stored.TrackingNumber = order.TrackingNumber
	stored.TrackingCarrier = order.TrackingCarrier
	stored.UpdatedAt = r.now().UTC()
	return stored.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.numbers[number]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.orders[id].Clone(), nil
}

func (r *Repository) ListByUser(_ context.Context, userID string, page pagination.Request) ([]*domain.Order, int64, error) {
	return r.list(func(o *domain.Order) bool { return o.UserID == userID }, page)
}

func (r *Repository) List(_ context.Context, status domain.Status, page pagination.Request) ([]*domain.Order, int64, error) {
	return r.list(func(o *domain.Order) bool { return status == "" || o.Status == status }, page)
}

func (r *Repository) list(keep func(*domain.Order) bool, page pagination.Request) ([]*domain.Order, int64, error) {
	matched := r.snapshot(keep)
	return pagination.Slice(matched, page), int64(len(matched)), nil
}

// snapshot returns copies of the matching orders, newest first.
func (r *Repository) snapshot(keep func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep == nil || keep(o) {
			matched = append(matched, o.Clone())
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OrderNumber > matched[j].OrderNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (r *Repository) CountOrders(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *Repository) CountOrdersSince(_ context.Context, since time.Time) (int64, error) {
	return int64(len(r.snapshot(func(o *domain.Order) bool { return !o.CreatedAt.Before(since) }))), nil
}

func (r *Repository) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	counts := map[domain.Status]int64{}
	for _, o := range r.snapshot(nil) {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *Repository) PaidRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.snapshot(isPaid) {
		total = total.Add(o.Total)
	}
	return total, nil
}

func (r *Repository) TopProducts(_ context.Context, limit int) ([]ports.ProductSales, error) {
	sales := aggregateProducts(r.snapshot(nil))
	return topN(sales, limit), nil
}

func (r *Repository) PaidProductSales(_ context.Context, since time.Time) ([]ports.ProductSales, error) {
	orders := r.snapshot(func(o *domain.Order) bool { return isPaid(o) && !o.CreatedAt.Before(since) })
	return aggregateProducts(orders), nil
}

func (r *Repository) DailyPaidSales(_ context.Context, since time.Time) ([]ports.DailySales, error) {
	byDay := map[string]*ports.DailySales{}
	for _, o := range r.snapshot(func(o *domain.Order) bool { return isPaid(o) && !o.CreatedAt.Before(since) }) {
		day := o.CreatedAt.UTC().Format(time.DateOnly)
		entry, ok := byDay[day]
		if !ok {
			entry = &ports.DailySales{Date: day, Revenue: decimal.Zero}
			byDay[day] = entry
		}
		entry.Revenue = entry.Revenue.Add(o.Total)
		entry.Orders++
	}
	out := make([]ports.DailySales, 0, len(byDay))
	for _, entry := range byDay {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *Repository) TopCustomers(_ context.Context, limit int) ([]ports.CustomerSpend, error) {
	byUser := map[string]*ports.CustomerSpend{}
	for _, o := range r.snapshot(isPaid) {
		entry, ok := byUser[o.UserID]
		if !ok {
			entry = &ports.CustomerSpend{UserID: o.UserID, TotalSpent: decimal.Zero}
			byUser[o.UserID] = entry
		}
		entry.TotalSpent = entry.TotalSpent.Add(o.Total)
		entry.Orders++
	}
	out := make([]ports.CustomerSpend, 0, len(byUser))
	for _, entry := range byUser {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) CountRepeatCustomers(_ context.Context) (int64, error) {
	perUser := map[string]int{}
	for _, o := range r.snapshot(nil) {
		perUser[o.UserID]++
	}
	var repeat int64
	for _, n := range perUser {
		if n >= 2 {
			repeat++
		}
	}
	return repeat, nil
}

func isPaid(o *domain.Order) bool {
	return o.PaymentStatus == domain.PaymentPaid
}

func aggregateProducts(orders []*domain.Order) []ports.ProductSales {
	byProduct := map[string]*ports.ProductSales{}
	for _, o := range orders {
		for _, item := range o.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &ports.ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = entry
			}
			entry.Units += int64(item.Quantity)
			entry.Revenue = entry.Revenue.Add(item.LineTotal())
		}
	}
	out := make([]ports.ProductSales, 0, len(byProduct))
	for _, entry := range byProduct {
		out = append(out, *entry)
	}
	return out
}

func topN(sales []ports.ProductSales, limit int) []ports.ProductSales {
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Units == sales[j].Units {
			return sales[i].ProductID < sales[j].ProductID
		}
		return sales[i].Units > sales[j].Units
	})
	if limit > 0 && len(sales) > limit {
		sales = sales[:limit]
	}
	return sales
}
