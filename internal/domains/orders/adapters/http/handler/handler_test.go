package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	ordercatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/catalog"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth/authtest"
)

type testEnv struct {
	router  *gin.Engine
	catalog *catalogapp.Service
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	svc := application.NewService(memory.NewRepository(), ordercatalog.NewInventory(catalog), nil)
	r := gin.New()
	New(svc, workflows.NewInlineOrderWorkflows(svc), nil).RegisterRoutes(r.Group("/api"), authtest.Middleware())
	return &testEnv{router: r, catalog: catalog}
}

func (e *testEnv) product(t *testing.T, slug string, stock int) string {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), catalogtypes.ProductInput{
		Name:        "Makhana " + slug,
		Slug:        slug,
		Description: "Roasted fox nuts",
		Price:       decimal.RequireFromString("10"),
		Category:    "snacks",
		Stock:       stock,
	})
	require.NoError(t, err)
	return p.ID
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	authtest.Authorize(req, token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func orderJSON(productID string, qty int) string {
	return `{"items":[{"productId":"` + productID + `","price":10,"quantity":` + strconv.Itoa(qty) + `}],
"shippingAddress":{"street":"1 Lotus Rd","city":"Patna","state":"BR","zipCode":"800001","country":"IN"},
"paymentMethod":"card"}`
}

func placeOrder(t *testing.T, e *testEnv, productID string, qty int) mapper.Order {
	t.Helper()
	rec := serve(e.router, http.MethodPost, "/api/orders", authtest.CustomerToken, orderJSON(productID, qty))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Order mapper.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Order
}

func TestPlaceOrder_ComputesTotals(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 5)

	rec := serve(e.router, http.MethodPost, "/api/orders", "", orderJSON(id, 2))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	order := placeOrder(t, e, id, 2)
	assert.Equal(t, 20.0, order.Subtotal)
	assert.Equal(t, 5.99, order.ShippingCost)
	assert.Equal(t, 1.6, order.Tax)
	assert.Equal(t, 27.59, order.Total)
	assert.Equal(t, "pending", order.OrderStatus)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.Equal(t, authtest.CustomerID, order.UserID)
	assert.Regexp(t, `^FN-\d{8}-[A-Z0-9]{6}$`, order.OrderNumber)
	assert.Equal(t, "Patna", order.BillingAddress.City)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "Order placed", order.StatusHistory[0].Note)
}

func TestPlaceOrder_ClientDiscountIgnored(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 5)

	body := strings.Replace(orderJSON(id, 2), `"paymentMethod":"card"`, `"paymentMethod":"card","discount":1000`, 1)
	rec := serve(e.router, http.MethodPost, "/api/orders", authtest.CustomerToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Order mapper.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Zero(t, resp.Order.Discount)
	assert.Equal(t, 27.59, resp.Order.Total)
	assert.InDelta(t, resp.Order.Subtotal+resp.Order.ShippingCost+resp.Order.Tax, resp.Order.Total, 0.001)
}

func TestPlaceOrder_InsufficientStockProblem(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 1)

	rec := serve(e.router, http.MethodPost, "/api/orders", authtest.CustomerToken, orderJSON(id, 2))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"insufficient_stock"`)

	rec = serve(e.router, http.MethodPost, "/api/orders", authtest.CustomerToken, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderAccessAndCancel(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 5)
	order := placeOrder(t, e, id, 1)

	rec := serve(e.router, http.MethodGet, "/api/orders/"+order.ID, authtest.OtherToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e.router, http.MethodGet, "/api/orders/"+order.ID, authtest.AdminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e.router, http.MethodPost, "/api/orders/"+order.ID+"/cancel", authtest.OtherToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e.router, http.MethodPost, "/api/orders/"+order.ID+"/cancel", authtest.CustomerToken, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"orderStatus":"cancelled"`)

	rec = serve(e.router, http.MethodPost, "/api/orders/"+order.ID+"/cancel", authtest.CustomerToken, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_transition"`)

	product, err := e.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestAdminRoutesAndTracking(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 5)
	order := placeOrder(t, e, id, 1)

	rec := serve(e.router, http.MethodPut, "/api/orders/"+order.ID+"/tracking", authtest.CustomerToken, `{"trackingNumber":"TRK-9","carrier":"UPS"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e.router, http.MethodPut, "/api/orders/"+order.ID+"/tracking", authtest.AdminToken, `{"trackingNumber":"TRK-9","carrier":"UPS"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"orderStatus":"shipped"`)

	rec = serve(e.router, http.MethodGet, "/api/orders/track/"+strings.ToLower(order.OrderNumber), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tracking mapper.Tracking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracking))
	assert.Equal(t, "TRK-9", tracking.TrackingNumber)
	assert.Len(t, tracking.StatusHistory, 2)

	rec = serve(e.router, http.MethodPut, "/api/orders/"+order.ID+"/status", authtest.AdminToken, `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e.router, http.MethodPut, "/api/orders/"+order.ID+"/payment", authtest.AdminToken, `{"paymentStatus":"paid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paymentStatus":"paid"`)

	for _, path := range []string{"/api/admin/orders", "/api/orders/admin"} {
		rec = serve(e.router, http.MethodGet, path+"?status=shipped", authtest.AdminToken, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list mapper.OrderList
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.EqualValues(t, 1, list.Total)
	}

	rec = serve(e.router, http.MethodGet, "/api/admin/orders", authtest.CustomerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListMyOrders(t *testing.T) {
	e := newEnv(t)
	id := e.product(t, "classic", 5)
	placeOrder(t, e, id, 1)
	placeOrder(t, e, id, 1)

	rec := serve(e.router, http.MethodGet, "/api/orders?limit=1", authtest.CustomerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list mapper.OrderList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.EqualValues(t, 2, list.Total)
	assert.Equal(t, 2, list.Pages)
	assert.Len(t, list.Orders, 1)

	rec = serve(e.router, http.MethodGet, "/api/orders", authtest.OtherToken, "")
	assert.Contains(t, rec.Body.String(), `"total":0`)
}
