package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

func seed(t *testing.T, repo *Repository, name, slug, price string, stock int, tags ...string) *domain.Product {
	t.Helper()
	saved, err := repo.Save(context.Background(), &domain.Product{
		Name:        name,
		Slug:        slug,
		Description: name + " from the farm",
		Price:       decimal.RequireFromString(price),
		Category:    "nuts",
		Tags:        tags,
		Stock:       stock,
		IsActive:    true,
	})
	require.NoError(t, err)
	return saved
}

func TestRepository_SaveAssignsIDAndRejectsDuplicateSlug(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, "Roasted Makhana", "roasted-makhana", "12.50", 10)
	assert.NotEmpty(t, saved.ID)

	_, err := repo.Save(context.Background(), &domain.Product{Name: "Other", Slug: "roasted-makhana", IsActive: true})
	assert.ErrorIs(t, err, ports.ErrDuplicateSlug)
	assert.ErrorIs(t, err, errkind.DuplicateKey)
}

func TestRepository_SaveKeepsStockAndRating(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	saved := seed(t, repo, "Roasted Makhana", "roasted-makhana", "12.50", 10)
	_, err := repo.ApplyRating(ctx, saved.ID, 4, domain.RatingAdd)
	require.NoError(t, err)

	saved.Stock = 999
	saved.TotalReviews = 0
	saved.Name = "Roasted Makhana XL"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Roasted Makhana XL", updated.Name)
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, 1, updated.TotalReviews)
	assert.True(t, updated.AverageRating.Equal(decimal.NewFromInt(4)))
}

func TestRepository_ReserveIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	saved := seed(t, repo, "Makhana", "makhana", "5", 3)

	require.NoError(t, repo.Reserve(ctx, saved.ID, 2))
	err := repo.Reserve(ctx, saved.ID, 2)
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Stock)

	assert.ErrorIs(t, repo.Reserve(ctx, "missing", 1), ports.ErrNotFound)
}

func TestRepository_ConcurrentReservationsNeverOversell(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	saved := seed(t, repo, "Makhana", "makhana", "5", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(ctx, saved.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, fetched.Stock)
}

func TestRepository_ListFiltersSortsAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	seed(t, repo, "Classic", "classic", "10", 1, "salted")
	seed(t, repo, "Peri Peri", "peri-peri", "14", 1, "spicy")
	seed(t, repo, "Mint", "mint", "12", 1, "herb", "salted")
	hidden := seed(t, repo, "Retired", "retired", "1", 1, "salted")
	hidden.IsActive = false
	_, err := repo.Save(ctx, hidden)
	require.NoError(t, err)

	items, total, err := repo.List(ctx, types.ProductFilter{Sort: types.SortPriceAsc}, pagination.New(1, 2, 12))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Classic", items[0].Name)
	assert.Equal(t, "Mint", items[1].Name)

	items, total, err = repo.List(ctx, types.ProductFilter{Tags: []string{"salted"}}, pagination.New(1, 10, 12))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, types.ProductFilter{Tags: []string{"salted"}, IncludeInactive: true}, pagination.New(1, 10, 12))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)

	minPrice := decimal.NewFromInt(11)
	items, _, err = repo.List(ctx, types.ProductFilter{MinPrice: &minPrice, Search: "PERI"}, pagination.New(1, 10, 12))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Peri Peri", items[0].Name)

	_, err = repo.GetBySlug(ctx, "retired")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_CategoriesAndTags(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	seed(t, repo, "Classic", "classic", "10", 1, "salted")
	seed(t, repo, "Mint", "mint", "12", 1, "herb", "salted")

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nuts"}, categories)

	tags, err := repo.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"herb", "salted"}, tags)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
