package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/memory"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

func TestSubscribeTransitions(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	outcome, err := svc.Subscribe(ctx, "  Asha@Example.COM ", "Asha")
	require.NoError(t, err)
	assert.Equal(t, domain.Subscribed, outcome)

	outcome, err = svc.Subscribe(ctx, "asha@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, domain.AlreadySubscribed, outcome)

	require.NoError(t, svc.Unsubscribe(ctx, "ASHA@example.com"))
	active, err := svc.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, active)

	outcome, err = svc.Subscribe(ctx, "asha@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Reactivated, outcome)

	_, err = svc.Subscribe(ctx, "not-an-email", "")
	assert.ErrorIs(t, err, errkind.Validation)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, "ghost@example.com"), ports.ErrNotFound)
}

func TestListSubscribers(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Subscribe(ctx, email, "")
		require.NoError(t, err)
	}
	require.NoError(t, svc.Unsubscribe(ctx, "b@example.com"))

	active, err := svc.ListSubscribers(ctx, true, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, active.Total)
	assert.Equal(t, DefaultPageSize, active.Limit)

	all, err := svc.ListSubscribers(ctx, false, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 2, all.Pages)
}
