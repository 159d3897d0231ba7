package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

type fakeCatalog map[string]ports.Product

func (f fakeCatalog) Product(_ context.Context, id string) (ports.Product, error) {
	p, ok := f[id]
	if !ok {
		return ports.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

func newService() *Service {
	return NewService(memory.NewRepository(), fakeCatalog{
		"p1":  {ID: "p1", Name: "Classic", Price: decimal.RequireFromString("4.50"), Image: "classic.png", Stock: 3, IsActive: true},
		"p2":  {ID: "p2", Name: "Peri Peri", Price: decimal.RequireFromString("6"), Stock: 10, IsActive: true},
		"off": {ID: "off", Name: "Retired", Price: decimal.NewFromInt(1), Stock: 10},
	})
}

func TestGet_MissingCartIsEmpty(t *testing.T) {
	svc := newService()
	cart, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total().IsZero())
}

func TestAddItem(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, "classic.png", cart.Items[0].Image)

	cart, err = svc.AddItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	cart, err = svc.AddItem(ctx, "u1", "p2", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, "19.50", cart.Total().StringFixed(2))

	_, err = svc.AddItem(ctx, "u1", "p1", 4)
	assert.Equal(t, errkind.InsufficientStock, errkind.Code(err))

	_, err = svc.AddItem(ctx, "u1", "missing", 1)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	_, err = svc.AddItem(ctx, "u1", "off", 1)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	_, err = svc.AddItem(ctx, "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRemoveClear(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, "u1", "p1", 2)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.AddItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", "p2", 1)
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, "u1", "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = svc.UpdateItem(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount())

	cart, err = svc.RemoveItem(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, svc.Clear(ctx, "u2"))
	cart, err = svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
