package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	ordercatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/catalog"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var (
	fixedNow = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	pageAll  = pagination.Request{Page: 1, Limit: pagination.MaxLimit}
)

type fakeCart struct {
	mu      sync.Mutex
	cleared []string
	err     error
}

func (c *fakeCart) Clear(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = append(c.cleared, userID)
	return c.err
}

// slowCart holds every clear long enough for concurrent checkouts to overlap.
type slowCart struct {
	delay time.Duration
}

func (c slowCart) Clear(context.Context, string) error {
	time.Sleep(c.delay)
	return nil
}

type failingRelease struct {
	ports.Inventory
}

func (failingRelease) Release(context.Context, []ports.StockLine) error {
	return errors.New("catalog unavailable")
}

type failingCreate struct {
	*memory.Repository
}

func (failingCreate) Create(context.Context, *domain.Order) (*domain.Order, error) {
	return nil, errors.New("database unavailable")
}

type fixture struct {
	svc     *Service
	catalog *catalogapp.Service
	repo    *memory.Repository
	cart    *fakeCart
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	repo := memory.NewRepository()
	cart := &fakeCart{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return &fixture{
		svc:     NewService(repo, ordercatalog.NewInventory(catalog), cart, opts...),
		catalog: catalog,
		repo:    repo,
		cart:    cart,
	}
}

func (f *fixture) product(t *testing.T, slug, price string, stock int) string {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), catalogtypes.ProductInput{
		Name:        "Makhana " + slug,
		Slug:        slug,
		Description: "Roasted fox nuts",
		Price:       decimal.RequireFromString(price),
		Category:    "snacks",
		Stock:       stock,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func address() domain.Address {
	return domain.Address{Street: "1 Lotus Rd", City: "Patna", State: "BR", ZipCode: "800001", Country: "IN"}
}

func checkout(userID string, items ...types.ItemInput) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address(),
		PaymentMethod:   "card",
	}
}

func TestPlaceOrder_ComputesTotalsAndReserves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	b := f.product(t, "peri-peri", "5", 3)

	order, err := f.svc.PlaceOrder(ctx, checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2},
		types.ItemInput{ProductID: b, Price: decimal.NewFromInt(5), Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, "25", order.Subtotal.String())
	assert.Equal(t, "2", order.Tax.String())
	assert.Equal(t, "5.99", order.ShippingCost.String())
	assert.Equal(t, "32.99", order.Total.String())
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Regexp(t, `^FN-20240517-[A-Z0-9]{6}$`, order.OrderNumber)
	require.Len(t, order.History, 1)
	assert.Equal(t, domain.NotePlaced, order.History[0].Note)
	assert.Equal(t, address(), order.BillingAddress)
	assert.Equal(t, "Makhana classic", order.Items[0].Name)

	assert.Equal(t, 3, f.stock(t, a))
	assert.Equal(t, 2, f.stock(t, b))
	assert.Equal(t, []string{"u1"}, f.cart.cleared)
}

func TestPlaceOrder_CatalogPricePolicy(t *testing.T) {
	f := newFixture(t, WithPricePolicy(types.PriceFromCatalog))
	a := f.product(t, "classic", "12.50", 5)

	order, err := f.svc.PlaceOrder(context.Background(), checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(1), Quantity: 2},
	))
	require.NoError(t, err)
	assert.Equal(t, "25", order.Subtotal.String())
}

func TestPlaceOrder_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)

	cases := map[string]types.PlaceOrderInput{
		"no items": checkout("u1"),
		"zero qty": checkout("u1", types.ItemInput{ProductID: a, Quantity: 0}),
		"no user":  checkout("", types.ItemInput{ProductID: a, Quantity: 1}),
		"no payment": func() types.PlaceOrderInput {
			in := checkout("u1", types.ItemInput{ProductID: a, Quantity: 1})
			in.PaymentMethod = " "
			return in
		}(),
		"no address": func() types.PlaceOrderInput {
			in := checkout("u1", types.ItemInput{ProductID: a, Quantity: 1})
			in.ShippingAddress = domain.Address{}
			return in
		}(),
		"neg shipping": func() types.PlaceOrderInput {
			in := checkout("u1", types.ItemInput{ProductID: a, Quantity: 1})
			cost := decimal.NewFromInt(-1)
			in.ShippingCost = &cost
			return in
		}(),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.PlaceOrder(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "validation_error", errkind.Code(err))
		})
	}
	assert.Equal(t, 5, f.stock(t, a))
}

func TestPlaceOrder_UnknownProductLeavesStockUntouched(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)

	_, err := f.svc.PlaceOrder(context.Background(), checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1},
		types.ItemInput{ProductID: "missing", Price: decimal.NewFromInt(10), Quantity: 1},
	))
	require.ErrorIs(t, err, ports.ErrProductNotFound)
	assert.Equal(t, "not_found", errkind.Code(err))
	assert.Equal(t, 5, f.stock(t, a))
}

func TestPlaceOrder_InsufficientStockNamesProduct(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	b := f.product(t, "mint", "10", 1)

	_, err := f.svc.PlaceOrder(context.Background(), checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1},
		types.ItemInput{ProductID: b, Price: decimal.NewFromInt(10), Quantity: 2},
	))
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Makhana mint", stockErr.Name)
	assert.Equal(t, "insufficient_stock", errkind.Code(err))
	assert.Equal(t, 5, f.stock(t, a))

	orders, total, err := f.repo.List(context.Background(), "", pageAll)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestPlaceOrder_LastUnitSoldOnce(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "classic", "10", 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(context.Background(), checkout("u1",
				types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, errors.Is(err, errkind.InsufficientStock), "unexpected error %v", err)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Zero(t, f.stock(t, a))
}

func TestPlaceOrder_PersistFailureReleasesReservation(t *testing.T) {
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	svc := NewService(failingCreate{memory.NewRepository()}, ordercatalog.NewInventory(catalog), &fakeCart{})
	f := &fixture{catalog: catalog}
	a := f.product(t, "classic", "10", 4)

	_, err := svc.PlaceOrder(context.Background(), checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 3},
	))
	require.Error(t, err)
	assert.Equal(t, 4, f.stock(t, a))
}

func TestPlaceOrder_CartFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.cart.err = errors.New("cart store down")
	a := f.product(t, "classic", "10", 4)

	order, err := f.svc.PlaceOrder(context.Background(), checkout("u1",
		types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1},
	))
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
}

func TestPlaceOrder_IdempotencyKeyReplays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	a := f.product(t, "classic", "10", 4)

	input := checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1})
	input.IdempotencyKey = "checkout-1"
	first, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, f.stock(t, a))

	input.Items[0].Quantity = 2
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestPlaceOrder_TotalIsSubtotalShippingAndTax(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)

	input := checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2})
	cost := decimal.RequireFromString("3.50")
	input.ShippingCost = &cost
	order, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, order.Discount.IsZero())
	assert.Equal(t, "25.1", order.Total.String())
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.ShippingCost).Add(order.Tax)))
}

func TestPlaceOrder_IdempotencyKeyScopedPerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	a := f.product(t, "classic", "10", 4)

	alice := checkout("alice", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1})
	alice.IdempotencyKey = "checkout-1"
	bob := checkout("bob", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2})
	bob.IdempotencyKey = "checkout-1"

	first, err := f.svc.PlaceOrder(ctx, alice)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, bob)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "bob", second.UserID)
	assert.Equal(t, 1, f.stock(t, a))
}

func TestPlaceOrder_ConcurrentSameKeyPlacesOneOrder(t *testing.T) {
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	repo := memory.NewRepository()
	svc := NewService(repo, ordercatalog.NewInventory(catalog), slowCart{delay: 20 * time.Millisecond},
		WithIdempotencyStore(memory.NewIdempotencyStore()))
	f := &fixture{catalog: catalog}
	a := f.product(t, "classic", "10", 100)

	input := checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1})
	input.IdempotencyKey = "checkout-1"

	var wg sync.WaitGroup
	orders := make([]*domain.Order, 8)
	errs := make([]error, len(orders))
	for i := range orders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders[i], errs[i] = svc.PlaceOrder(ctx, input)
		}(i)
	}
	wg.Wait()

	ids := map[string]struct{}{}
	for i, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ports.ErrIdempotencyInProgress)
			continue
		}
		ids[orders[i].ID] = struct{}{}
	}
	assert.Len(t, ids, 1)
	assert.Equal(t, 99, f.stock(t, a))

	_, total, err := repo.List(ctx, "", pageAll)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	replayed, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Contains(t, ids, replayed.ID)
}

func TestPlaceOrder_FailedCheckoutReleasesIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithIdempotencyStore(memory.NewIdempotencyStore()))
	a := f.product(t, "classic", "10", 1)

	input := checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2})
	input.IdempotencyKey = "checkout-1"
	_, err := f.svc.PlaceOrder(ctx, input)
	require.ErrorIs(t, err, errkind.InsufficientStock)

	input.Items[0].Quantity = 1
	order, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Zero(t, f.stock(t, a))
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2}))
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, order.ID, "u2")
	require.ErrorIs(t, err, ports.ErrUnauthorized)

	cancelled, err := f.svc.CancelOrder(ctx, order.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.Len(t, cancelled.History, 2)
	assert.Equal(t, domain.NoteCancelled, cancelled.History[1].Note)
	assert.Equal(t, 5, f.stock(t, a))

	_, err = f.svc.CancelOrder(ctx, order.ID, "u1")
	assert.Equal(t, "invalid_transition", errkind.Code(err))
	assert.Equal(t, 5, f.stock(t, a))
}

func TestCancelOrder_RestockFailureStillCancels(t *testing.T) {
	ctx := context.Background()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	repo := memory.NewRepository()
	svc := NewService(repo, failingRelease{ordercatalog.NewInventory(catalog)}, &fakeCart{})
	f := &fixture{catalog: catalog}
	a := f.product(t, "classic", "10", 5)

	order, err := svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2}))
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, order.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 3, f.stock(t, a))
}

func TestCancelOrder_ShippedIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.AddTracking(ctx, order.ID, "TRK-1", "UPS")
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, order.ID, "u1")
	require.ErrorIs(t, err, errkind.InvalidTransition)
	assert.Equal(t, 4, f.stock(t, a))
}

func TestCancelOrder_ConcurrentCancelsRestockOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 2}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.CancelOrder(ctx, order.ID, "u1")
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, f.stock(t, a))
}

func TestGetOrder_OwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
	require.NoError(t, err)

	_, err = f.svc.GetOrder(ctx, order.ID, types.Requester{UserID: "u1"})
	require.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, order.ID, types.Requester{UserID: "admin", IsAdmin: true})
	require.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, order.ID, types.Requester{UserID: "u2"})
	assert.Equal(t, "unauthorized", errkind.Code(err))
	_, err = f.svc.GetOrder(ctx, "nope", types.Requester{UserID: "u1"})
	assert.Equal(t, "not_found", errkind.Code(err))
}

func TestAdminStatusPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("permissive", func(t *testing.T) {
		f := newFixture(t)
		a := f.product(t, "classic", "10", 5)
		order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
		require.NoError(t, err)
		updated, err := f.svc.UpdateOrderStatus(ctx, order.ID, domain.StatusDelivered, "hand delivered")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, updated.Status)
		assert.Len(t, updated.History, 2)

		_, err = f.svc.UpdateOrderStatus(ctx, order.ID, "lost", "")
		assert.Equal(t, "validation_error", errkind.Code(err))
	})

	t.Run("strict", func(t *testing.T) {
		f := newFixture(t, WithStatusPolicy(types.StatusStrict))
		a := f.product(t, "classic", "10", 5)
		order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
		require.NoError(t, err)
		_, err = f.svc.UpdateOrderStatus(ctx, order.ID, domain.StatusDelivered, "")
		assert.Equal(t, "invalid_transition", errkind.Code(err))
		_, err = f.svc.UpdateOrderStatus(ctx, order.ID, domain.StatusProcessing, "")
		assert.NoError(t, err)
	})
}

func TestAddTrackingFromDelivered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderStatus(ctx, order.ID, domain.StatusDelivered, "")
	require.NoError(t, err)

	_, err = f.svc.AddTracking(ctx, order.ID, " ", "UPS")
	assert.Equal(t, "validation_error", errkind.Code(err))

	shipped, err := f.svc.AddTracking(ctx, order.ID, "TRK-9", "UPS")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, shipped.Status)
	assert.Equal(t, domain.NoteTrackingAdded, shipped.History[len(shipped.History)-1].Note)

	tracking, err := f.svc.TrackOrder(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "TRK-9", tracking.TrackingNumber)
	assert.Len(t, tracking.History, 3)
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 5)
	order, err := f.svc.PlaceOrder(ctx, checkout("u1", types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
	require.NoError(t, err)

	paid, err := f.svc.UpdatePaymentStatus(ctx, order.ID, "Paid")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, order.ID, "bounced")
	assert.Equal(t, "validation_error", errkind.Code(err))
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "classic", "10", 50)
	for _, user := range []string{"u1", "u1", "u2"} {
		_, err := f.svc.PlaceOrder(ctx, checkout(user, types.ItemInput{ProductID: a, Price: decimal.NewFromInt(10), Quantity: 1}))
		require.NoError(t, err)
	}

	mine, err := f.svc.ListUserOrders(ctx, "u1", 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	assert.Equal(t, DefaultUserPageSize, mine.Limit)

	all, err := f.svc.ListOrders(ctx, types.ListOrdersQuery{Status: domain.StatusPending, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 2, all.Pages)

	_, err = f.svc.ListOrders(ctx, types.ListOrdersQuery{Status: "bogus"})
	assert.Equal(t, "validation_error", errkind.Code(err))
}
