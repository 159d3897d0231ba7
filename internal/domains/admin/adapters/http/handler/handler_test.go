package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	admincatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/catalog"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/application"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/admin/ports"
	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	newslettermemory "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/memory"
	newsletterapp "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/application"
	ordercatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/catalog"
	ordermemory "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	submemory "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/memory"
	subapp "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/application"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth/authtest"
)

type staticCustomers struct{}

func (staticCustomers) CountUsers(context.Context) (int64, error) { return 2, nil }

func (staticCustomers) CountUsersSince(context.Context, time.Time) (int64, error) { return 1, nil }

func (staticCustomers) Customer(_ context.Context, id string) (*ports.Customer, error) {
	if id != authtest.CustomerID {
		return nil, ports.ErrUnknown
	}
	return &ports.Customer{ID: id, Name: "Asha", Email: "asha@example.com"}, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	product, err := catalog.CreateProduct(ctx, catalogtypes.ProductInput{
		Name:        "Classic Makhana",
		Slug:        "classic",
		Description: "Roasted fox nuts",
		Price:       decimal.NewFromInt(10),
		Category:    "snacks",
		Stock:       20,
	})
	require.NoError(t, err)

	orderRepo := ordermemory.NewRepository()
	orders := orderapp.NewService(orderRepo, ordercatalog.NewInventory(catalog), nil)
	order, err := orders.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		UserID: authtest.CustomerID,
		Items:  []ordertypes.ItemInput{{ProductID: product.ID, Price: decimal.NewFromInt(10), Quantity: 3}},
		ShippingAddress: orderdomain.Address{
			Street: "1 Lotus Rd", City: "Patna", State: "BR", ZipCode: "800001", Country: "IN",
		},
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	_, err = orders.UpdatePaymentStatus(ctx, order.ID, orderdomain.PaymentPaid)
	require.NoError(t, err)

	newsletter := newsletterapp.NewService(newslettermemory.NewRepository())
	_, err = newsletter.Subscribe(ctx, "asha@example.com", "Asha")
	require.NoError(t, err)

	svc := application.NewService(application.Sources{
		Orders:        orderRepo,
		Catalog:       admincatalog.NewProducts(catalog),
		Customers:     staticCustomers{},
		Newsletter:    newsletter,
		Subscriptions: subapp.NewService(submemory.NewRepository(), nil),
	})
	r := gin.New()
	New(svc, nil).RegisterRoutes(r.Group("/api"), authtest.Middleware())
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	authtest.Authorize(req, token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminReportsRequireAdmin(t *testing.T) {
	r := newRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/admin/dashboard", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/admin/dashboard", authtest.CustomerToken).Code)
}

func TestDashboard(t *testing.T) {
	r := newRouter(t)
	rec := get(r, "/api/admin/dashboard", authtest.AdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d mapper.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.EqualValues(t, 2, d.TotalUsers)
	assert.EqualValues(t, 1, d.TotalProducts)
	assert.EqualValues(t, 1, d.TotalOrders)
	assert.EqualValues(t, 1, d.RecentOrders)
	assert.Greater(t, d.TotalRevenue, 30.0)
	assert.EqualValues(t, 1, d.OrdersByStatus["pending"])
	require.Len(t, d.TopProducts, 1)
	assert.Equal(t, "Classic Makhana", d.TopProducts[0].Name)
	assert.EqualValues(t, 3, d.TopProducts[0].TotalSold)
	assert.EqualValues(t, 1, d.NewsletterSubscribers)
	assert.Zero(t, d.ActiveSubscriptions)
}

func TestSalesAndCustomerAnalytics(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/api/admin/analytics/sales?days=7", authtest.AdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sales mapper.SalesAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	assert.Equal(t, 7, sales.Days)
	require.Len(t, sales.DailySales, 1)
	assert.EqualValues(t, 1, sales.DailySales[0].Orders)
	require.Len(t, sales.CategoryPerformance, 1)
	assert.Equal(t, "snacks", sales.CategoryPerformance[0].Category)
	assert.Equal(t, 30.0, sales.CategoryPerformance[0].Revenue)

	rec = get(r, "/api/admin/analytics/sales?days=abc", authtest.AdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(r, "/api/admin/analytics/customers", authtest.AdminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var customers mapper.CustomerAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.EqualValues(t, 1, customers.NewCustomers)
	require.Len(t, customers.TopCustomers, 1)
	assert.Equal(t, "asha@example.com", customers.TopCustomers[0].Email)
	assert.Zero(t, customers.RepeatCustomers)
}
