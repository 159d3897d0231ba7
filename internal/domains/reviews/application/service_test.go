package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	reviewcatalog "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/catalog"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var pageAll = pagination.Request{Page: 1, Limit: pagination.MaxLimit}

type fixture struct {
	svc       *Service
	catalog   *catalogapp.Service
	productID string
}

type staticAuthors map[string]string

func (a staticAuthors) Names(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if name, ok := a[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := catalogapp.NewService(catalogmemory.NewRepository())
	product, err := catalog.CreateProduct(context.Background(), catalogtypes.ProductInput{
		Name:        "Classic Makhana",
		Slug:        "classic",
		Description: "Roasted fox nuts",
		Price:       decimal.NewFromInt(10),
		Category:    "snacks",
		Stock:       5,
	})
	require.NoError(t, err)
	svc := NewService(memory.NewRepository(), reviewcatalog.NewRatings(catalog), WithAuthors(staticAuthors{"u1": "Asha"}))
	return &fixture{svc: svc, catalog: catalog, productID: product.ID}
}

func (f *fixture) aggregate(t *testing.T) (string, int) {
	t.Helper()
	p, err := f.catalog.GetProduct(context.Background(), f.productID)
	require.NoError(t, err)
	return p.AverageRating.StringFixed(2), p.TotalReviews
}

func (f *fixture) review(t *testing.T, userID string, rating int) string {
	t.Helper()
	r, err := f.svc.CreateReview(context.Background(), userID, types.ReviewInput{ProductID: f.productID, Rating: rating, Title: "Crunchy"})
	require.NoError(t, err)
	return r.ID
}

func intPtr(v int) *int { return &v }

func TestCreateReview_UpdatesAggregate(t *testing.T) {
	f := newFixture(t)
	f.review(t, "u1", 4)
	f.review(t, "u2", 5)
	f.review(t, "u3", 5)

	avg, count := f.aggregate(t)
	assert.Equal(t, "4.67", avg)
	assert.Equal(t, 3, count)
}

func TestCreateReview_DuplicateAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.review(t, "u1", 3)

	_, err := f.svc.CreateReview(ctx, "u1", types.ReviewInput{ProductID: f.productID, Rating: 5})
	assert.ErrorIs(t, err, ports.ErrDuplicateReview)
	assert.Equal(t, errkind.DuplicateReview, errkind.Code(err))

	_, err = f.svc.CreateReview(ctx, "u2", types.ReviewInput{ProductID: f.productID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateReview(ctx, "u2", types.ReviewInput{ProductID: "missing", Rating: 2})
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	avg, count := f.aggregate(t)
	assert.Equal(t, "3.00", avg)
	assert.Equal(t, 1, count)
}

func TestUpdateReview_RemovesThenAdds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.review(t, "u1", 3)
	f.review(t, "u2", 4)

	_, err := f.svc.UpdateReview(ctx, id, "u2", types.ReviewPatch{Rating: intPtr(5)})
	assert.ErrorIs(t, err, ports.ErrUnauthorized)

	updated, err := f.svc.UpdateReview(ctx, id, "u1", types.ReviewPatch{Rating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	avg, count := f.aggregate(t)
	assert.Equal(t, "4.50", avg)
	assert.Equal(t, 2, count)

	title := "Even better"
	_, err = f.svc.UpdateReview(ctx, id, "u1", types.ReviewPatch{Title: &title})
	require.NoError(t, err)
	avg, count = f.aggregate(t)
	assert.Equal(t, "4.50", avg)
	assert.Equal(t, 2, count)
}

func TestRepeatedEditsKeepExactMean(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.review(t, "u1", 1)
	f.review(t, "u2", 2)
	f.review(t, "u3", 2)

	for _, rating := range []int{5, 3, 4, 1, 5, 2} {
		_, err := f.svc.UpdateReview(ctx, id, "u1", types.ReviewPatch{Rating: intPtr(rating)})
		require.NoError(t, err)
	}
	avg, count := f.aggregate(t)
	assert.Equal(t, "2.00", avg)
	assert.Equal(t, 3, count)
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.review(t, "u1", 2)

	assert.ErrorIs(t, f.svc.DeleteReview(ctx, id, "u2"), ports.ErrUnauthorized)
	require.NoError(t, f.svc.DeleteReview(ctx, id, "u1"))
	assert.ErrorIs(t, f.svc.DeleteReview(ctx, id, "u1"), ports.ErrNotFound)

	avg, count := f.aggregate(t)
	assert.Equal(t, "0.00", avg)
	assert.Equal(t, 0, count)

	// The pair is free again once the review is gone.
	f.review(t, "u1", 4)
}

func TestListingsAndHelpful(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.review(t, "u1", 4)
	f.review(t, "u2", 5)

	helpful, err := f.svc.MarkHelpful(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, helpful.Helpful)
	_, err = f.svc.MarkHelpful(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	page, err := f.svc.ListProductReviews(ctx, f.productID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	names := map[string]string{}
	for _, v := range page.Items {
		names[v.Review.UserID] = v.UserName
	}
	assert.Equal(t, "Asha", names["u1"])
	assert.Equal(t, "Anonymous", names["u2"])

	mine, err := f.svc.ListUserReviews(ctx, "u1", 1, 10)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "Classic Makhana", mine.Items[0].ProductName)
}

type failingRatings struct {
	ports.Catalog
}

func (failingRatings) AddRating(context.Context, string, int) error {
	return errors.New("catalog unavailable")
}

func TestCreateReview_RollsBackWhenRatingFails(t *testing.T) {
	f := newFixture(t)
	repo := memory.NewRepository()
	svc := NewService(repo, failingRatings{Catalog: reviewcatalog.NewRatings(f.catalog)})

	_, err := svc.CreateReview(context.Background(), "u1", types.ReviewInput{ProductID: f.productID, Rating: 4})
	require.Error(t, err)

	reviews, total, err := repo.ListByUser(context.Background(), "u1", pageAll)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, reviews)
}

// deletingRatings deletes the review being edited from inside RemoveRating,
// landing the delete between the aggregate change and the review write.
type deletingRatings struct {
	ports.Catalog
	svc      *Service
	reviewID string
	userID   string
	deleted  bool
	err      error
}

func (d *deletingRatings) RemoveRating(ctx context.Context, productID string, rating int) error {
	if err := d.Catalog.RemoveRating(ctx, productID, rating); err != nil {
		return err
	}
	if !d.deleted {
		d.deleted = true
		d.err = d.svc.DeleteReview(ctx, d.reviewID, d.userID)
	}
	return nil
}

func TestUpdateReview_DeletedMidUpdateLeavesAggregateEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := memory.NewRepository()
	hook := &deletingRatings{Catalog: reviewcatalog.NewRatings(f.catalog), userID: "u1"}
	svc := NewService(repo, hook)
	hook.svc = svc

	created, err := svc.CreateReview(ctx, "u1", types.ReviewInput{ProductID: f.productID, Rating: 3, Title: "Crunchy"})
	require.NoError(t, err)
	hook.reviewID = created.ID

	_, err = svc.UpdateReview(ctx, created.ID, "u1", types.ReviewPatch{Rating: intPtr(5)})
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, hook.err)

	_, total, err := repo.ListByProduct(ctx, f.productID, pageAll)
	require.NoError(t, err)
	assert.Zero(t, total)

	avg, count := f.aggregate(t)
	assert.Equal(t, "0.00", avg)
	assert.Zero(t, count)
}
