package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

func newProduct(t *testing.T, svc *Service, slug string, stock int) *domain.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), types.ProductInput{
		Name:        "Makhana " + slug,
		Slug:        slug,
		Description: "Popped fox nuts",
		Price:       decimal.RequireFromString("12.50"),
		Category:    "Snacks",
		Tags:        []string{"Salted", "salted", " vegan "},
		Stock:       stock,
	})
	require.NoError(t, err)
	return product
}

func TestCreateProduct_NormalizesAndDefaultsActive(t *testing.T) {
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "classic", 5)

	assert.True(t, product.IsActive)
	assert.Equal(t, "snacks", product.Category)
	assert.Equal(t, []string{"salted", "vegan"}, product.Tags)
	assert.True(t, product.AverageRating.IsZero())
	assert.Zero(t, product.TotalReviews)
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.CreateProduct(context.Background(), types.ProductInput{Name: "x", Slug: "Bad Slug!", Description: "d", Category: "c"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidSlug)
	assert.Equal(t, "validation_error", errkind.Code(err))
}

func TestUpdateProduct_PatchLeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "classic", 5)

	price := decimal.RequireFromString("9.99")
	updated, err := svc.UpdateProduct(ctx, product.ID, types.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, 5, updated.Stock)

	_, err = svc.UpdateProduct(ctx, "missing", types.ProductPatch{})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteProduct_SoftDeletes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "classic", 5)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	fetched, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)

	_, err = svc.GetProductBySlug(ctx, "classic")
	assert.ErrorIs(t, err, errkind.NotFound)

	page, err := svc.ListProducts(ctx, types.ListProductsQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Pages)
}

func TestListProducts_RejectsInvertedPriceRange(t *testing.T) {
	svc := NewService(memory.NewRepository())
	lo, hi := decimal.NewFromInt(20), decimal.NewFromInt(10)
	_, err := svc.ListProducts(context.Background(), types.ListProductsQuery{
		Filter: types.ProductFilter{MinPrice: &lo, MaxPrice: &hi},
	})
	assert.ErrorIs(t, err, ErrInvalidPriceRange)
}

func TestListProducts_Pages(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		newProduct(t, svc, slug, 1)
	}

	page, err := svc.ListProducts(ctx, types.ListProductsQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Items, 1)

	page, err = svc.ListProducts(ctx, types.ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Limit)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "classic", 5)

	updated, err := svc.AdjustStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Stock)

	updated, err = svc.AdjustStock(ctx, product.ID, -8)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	_, err = svc.AdjustStock(ctx, product.ID, -1)
	assert.ErrorIs(t, err, errkind.InsufficientStock)

	_, err = svc.AdjustStock(ctx, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReserveStock_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	a := newProduct(t, svc, "a", 5)
	b := newProduct(t, svc, "b", 1)

	err := svc.ReserveStock(ctx, []types.StockLine{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 2},
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b.ID, stockErr.ProductID)

	fetched, err := svc.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fetched.Stock, "first line must be released again")

	require.NoError(t, svc.ReserveStock(ctx, []types.StockLine{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	}))
	fetched, err = svc.GetProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, fetched.Stock)
}

func TestReserveStock_LastUnitGoesToOneBuyer(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "last", 1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.ReserveStock(ctx, []types.StockLine{{ProductID: product.ID, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			require.ErrorIs(t, err, errkind.InsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}

func TestReserveStock_ValidatesLinesFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "a", 5)

	err := svc.ReserveStock(ctx, []types.StockLine{
		{ProductID: product.ID, Quantity: 1},
		{ProductID: product.ID, Quantity: 0},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	fetched, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fetched.Stock)
}

func TestReleaseStock_AttemptsEveryLine(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "a", 5)

	err := svc.ReleaseStock(ctx, []types.StockLine{
		{ProductID: "missing", Quantity: 1},
		{ProductID: product.ID, Quantity: 2},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrNotFound))

	fetched, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, fetched.Stock)
}

func TestApplyRating(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewRepository())
	product := newProduct(t, svc, "a", 5)

	_, err := svc.ApplyRating(ctx, product.ID, 5, domain.RatingAdd)
	require.NoError(t, err)
	updated, err := svc.ApplyRating(ctx, product.ID, 4, domain.RatingAdd)
	require.NoError(t, err)
	assert.Equal(t, "4.5", updated.AverageRating.String())
	assert.Equal(t, 2, updated.TotalReviews)

	updated, err = svc.ApplyRating(ctx, product.ID, 5, domain.RatingRemove)
	require.NoError(t, err)
	assert.Equal(t, "4", updated.AverageRating.String())
	assert.Equal(t, 1, updated.TotalReviews)

	_, err = svc.ApplyRating(ctx, product.ID, 6, domain.RatingAdd)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.ApplyRating(ctx, product.ID, 3, domain.RatingDirection("sideways"))
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}
