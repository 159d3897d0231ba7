//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/platform/postgres/pgtest"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var placedAt = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func newTestOrder(userID, number string, items ...domain.Item) *domain.Order {
	totals, _ := domain.ComputeTotals(items, domain.DefaultShippingCost, decimal.Zero)
	addr := domain.Address{Name: "Asha", Street: "1 Lotus Rd", City: "Patna", State: "BR", ZipCode: "800001", Country: "IN"}
	return &domain.Order{
		UserID:          userID,
		OrderNumber:     number,
		Items:           items,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		Tax:             totals.Tax,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ShippingAddress: addr,
		BillingAddress:  addr,
		PaymentMethod:   "card",
		PaymentStatus:   domain.PaymentPending,
		Status:          domain.StatusPending,
		History:         []domain.HistoryEntry{{Status: domain.StatusPending, Timestamp: placedAt, Note: domain.NotePlaced}},
		CreatedAt:       placedAt,
		UpdatedAt:       placedAt,
	}
}

func line(productID, price string, qty int) domain.Item {
	return domain.Item{ProductID: productID, Name: "Makhana " + productID, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestRepository_CreateAndLoad(t *testing.T) {
	db := pgtest.Start(t, Models()...)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestOrder("u1", "FN-20240517-AAAAAA", line("p1", "10", 2), line("p2", "5", 1)))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "32.99", created.Total.StringFixed(2))
	require.Len(t, created.Items, 2)
	assert.Equal(t, "p1", created.Items[0].ProductID)
	assert.Equal(t, "Patna", created.ShippingAddress.City)
	require.Len(t, created.History, 1)

	byNumber, err := repo.GetByNumber(ctx, "FN-20240517-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = repo.Create(ctx, newTestOrder("u2", "FN-20240517-AAAAAA", line("p1", "10", 1)))
	assert.ErrorIs(t, err, ports.ErrDuplicateOrderNumber)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateAppendsHistoryConditionally(t *testing.T) {
	db := pgtest.Start(t, Models()...)
	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, newTestOrder("u1", "FN-20240517-BBBBBB", line("p1", "10", 1)))
	require.NoError(t, err)

	require.NoError(t, order.AddTracking("TRK-1", "UPS", placedAt.Add(time.Hour)))
	shipped, err := repo.Update(ctx, order, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, shipped.Status)
	assert.Equal(t, "TRK-1", shipped.TrackingNumber)
	require.Len(t, shipped.History, 2)
	assert.Equal(t, domain.NoteTrackingAdded, shipped.History[1].Note)

	stale := order.Clone()
	require.NoError(t, stale.Transition(domain.StatusCancelled, domain.NoteCancelled, placedAt.Add(2*time.Hour)))
	_, err = repo.Update(ctx, stale, domain.StatusPending)
	assert.ErrorIs(t, err, ports.ErrConcurrentUpdate)
}

func TestRepository_ConcurrentCancelsWinOnce(t *testing.T) {
	db := pgtest.Start(t, Models()...)
	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, newTestOrder("u1", "FN-20240517-CCCCCC", line("p1", "10", 1)))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attempt := order.Clone()
			if err := attempt.Cancel(placedAt.Add(time.Minute)); err != nil {
				return
			}
			if _, err := repo.Update(ctx, attempt, domain.StatusPending); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 2)
}

func TestRepository_ListAndReporting(t *testing.T) {
	db := pgtest.Start(t, Models()...)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, newTestOrder("u1", "FN-20240517-DDDDDD", line("p1", "10", 2)))
	require.NoError(t, err)
	second := newTestOrder("u1", "FN-20240518-EEEEEE", line("p1", "10", 1), line("p2", "4", 3))
	second.CreatedAt = placedAt.Add(24 * time.Hour)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestOrder("u2", "FN-20240517-FFFFFF", line("p2", "4", 1)))
	require.NoError(t, err)

	require.NoError(t, first.SetPaymentStatus(domain.PaymentPaid, placedAt))
	_, err = repo.Update(ctx, first, domain.StatusPending)
	require.NoError(t, err)

	mine, total, err := repo.ListByUser(ctx, "u1", pagination.Request{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "FN-20240518-EEEEEE", mine[0].OrderNumber)

	pending, total, err := repo.List(ctx, domain.StatusPending, pagination.Request{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, pending, 1)

	n, err := repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	byStatus, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, byStatus[domain.StatusPending])

	revenue, err := repo.PaidRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Total.StringFixed(2), revenue.StringFixed(2))

	top, err := repo.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p2", top[0].ProductID)
	assert.EqualValues(t, 4, top[0].Units)

	daily, err := repo.DailyPaidSales(ctx, placedAt.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "2024-05-17", daily[0].Date)

	repeat, err := repo.CountRepeatCustomers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, repeat)

	customers, err := repo.TopCustomers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "u1", customers[0].UserID)
}

func TestIdempotencyStore(t *testing.T) {
	db := pgtest.Start(t, Models()...)
	store := NewIdempotencyStore(db)
	ctx := context.Background()
	orderID := uuid.NewString()

	claimed, ok, err := store.Claim(ctx, ports.IdempotencyRecord{UserID: "u1", Key: "k1", RequestHash: "h1"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, claimed.Pending())

	pending, ok, err := store.Claim(ctx, ports.IdempotencyRecord{UserID: "u1", Key: "k1", RequestHash: "h1"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, pending.Pending())

	_, ok, err = store.Claim(ctx, ports.IdempotencyRecord{UserID: "u2", Key: "k1", RequestHash: "h9"})
	require.NoError(t, err)
	assert.True(t, ok, "keys are scoped per user")

	require.NoError(t, store.Complete(ctx, "u1", "k1", orderID))
	require.NoError(t, store.Release(ctx, "u1", "k1"))

	done, ok, err := store.Claim(ctx, ports.IdempotencyRecord{UserID: "u1", Key: "k1", RequestHash: "h2"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, orderID, done.OrderID)
	assert.Equal(t, "h1", done.RequestHash)

	require.NoError(t, store.Release(ctx, "u2", "k1"))
	_, ok, err = store.Claim(ctx, ports.IdempotencyRecord{UserID: "u2", Key: "k1", RequestHash: "h9"})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, store.Complete(ctx, "u3", "k1", orderID), ports.ErrIdempotencyNotClaimed)
}
