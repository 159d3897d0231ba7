package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartcatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/catalog"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth/authtest"
)

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	product, err := catalog.CreateProduct(context.Background(), catalogtypes.ProductInput{
		Name:        "Classic Makhana",
		Slug:        "classic",
		Description: "Roasted fox nuts",
		Price:       decimal.RequireFromString("4.25"),
		Images:      []string{"https://cdn.example/classic.png"},
		Category:    "snacks",
		Stock:       4,
	})
	require.NoError(t, err)
	svc := application.NewService(memory.NewRepository(), cartcatalog.NewProducts(catalog))
	r := gin.New()
	New(svc, nil).RegisterRoutes(r.Group("/api"), authtest.Middleware())
	return r, product.ID
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	authtest.Authorize(req, token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) mapper.Cart {
	t.Helper()
	var body struct {
		Cart mapper.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Cart
}

func TestCartFlow(t *testing.T) {
	r, productID := newRouter(t)

	rec := serve(r, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodGet, "/api/cart", authtest.CustomerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, rec.Body.String())

	rec = serve(r, http.MethodPost, "/api/cart/add", authtest.CustomerToken, `{"productId":"`+productID+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeCart(t, rec)
	assert.Equal(t, 8.5, cart.Total)
	require.NotNil(t, cart.Items[0].Image)
	assert.Equal(t, "https://cdn.example/classic.png", *cart.Items[0].Image)

	rec = serve(r, http.MethodPost, "/api/cart/add", authtest.CustomerToken, `{"productId":"`+productID+`","quantity":9}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"insufficient_stock"`)

	rec = serve(r, http.MethodPut, "/api/cart/update", authtest.CustomerToken, `{"productId":"`+productID+`","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeCart(t, rec).Items[0].Quantity)

	rec = serve(r, http.MethodDelete, "/api/cart/remove/"+productID, authtest.CustomerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeCart(t, rec).ItemCount)

	rec = serve(r, http.MethodDelete, "/api/cart/clear", authtest.CustomerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartValidation(t *testing.T) {
	r, _ := newRouter(t)

	rec := serve(r, http.MethodPost, "/api/cart/add", authtest.CustomerToken, `{"productId":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPut, "/api/cart/update", authtest.OtherToken, `{"productId":"p1","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
