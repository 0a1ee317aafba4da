package services

import (
	"context"
	"testing"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDebtors(t *testing.T, env *testEnv, storeID string, debts map[string]string) map[string]*model.Customer {
	out := make(map[string]*model.Customer, len(debts))
	for name, debt := range debts {
		c, err := env.customers.Create(context.Background(), storeID, fixtures.NewCustomerCreateRequest(name, debt))
		require.NoError(t, err)
		out[name] = c
	}
	return out
}

func TestNotificationService_SweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedDebtors(t, env, fixtures.StoreA, map[string]string{"Ana": "12.5", "Beto": "", "Carla": "3"})

	n, err := env.notifications.SweepStore(ctx, fixtures.StoreA)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = env.notifications.SweepStore(ctx, fixtures.StoreA)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := env.notifications.List(ctx, fixtures.StoreA, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	messages := []string{list[0].Message, list[1].Message}
	assert.Contains(t, messages, "Ana has an outstanding balance of $12.50")
	assert.Contains(t, messages, "Carla has an outstanding balance of $3.00")
}

func TestNotificationService_DismissedCustomerIsNotifiedAgain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedDebtors(t, env, fixtures.StoreA, map[string]string{"Ana": "10"})

	_, err := env.notifications.SweepStore(ctx, fixtures.StoreA)
	require.NoError(t, err)
	list, err := env.notifications.List(ctx, fixtures.StoreA, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.notifications.Dismiss(ctx, fixtures.StoreA, list[0].ID))

	n, err := env.notifications.SweepStore(ctx, fixtures.StoreA)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNotificationService_ReadFlowAndCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedDebtors(t, env, fixtures.StoreA, map[string]string{"Ana": "10", "Beto": "20"})

	_, err := env.notifications.SweepStore(ctx, fixtures.StoreA)
	require.NoError(t, err)

	unread, count, err := env.notifications.ListUnread(ctx, fixtures.StoreA, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, unread, 2)

	require.NoError(t, env.notifications.MarkRead(ctx, fixtures.StoreA, unread[0].ID))
	count, err = env.notifications.CountUnread(ctx, fixtures.StoreA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, env.notifications.MarkRead(ctx, fixtures.StoreB, unread[1].ID), model.ErrNotFound)

	require.NoError(t, env.notifications.Delete(ctx, fixtures.StoreA, unread[1].ID))
	assert.ErrorIs(t, env.notifications.Delete(ctx, fixtures.StoreA, unread[1].ID), model.ErrNotFound)
}

func TestNotificationService_EnsureForCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customers := seedDebtors(t, env, fixtures.StoreA, map[string]string{"Ana": "10", "Beto": ""})

	ok, err := env.notifications.EnsureForCustomer(ctx, fixtures.StoreA, customers["Ana"].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.notifications.EnsureForCustomer(ctx, fixtures.StoreA, customers["Ana"].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.notifications.EnsureForCustomer(ctx, fixtures.StoreA, customers["Beto"].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.notifications.EnsureForCustomer(ctx, fixtures.StoreB, customers["Ana"].ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNotificationService_SweepAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedDebtors(t, env, fixtures.StoreA, map[string]string{"Ana": "10"})
	seedDebtors(t, env, fixtures.StoreB, map[string]string{"Beto": "20", "Carla": "1"})

	n, err := env.notifications.SweepAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, err := env.notifications.List(ctx, fixtures.StoreB, 0, 0)
	require.NoError(t, err)
	assert.Len(t, b, 2)
	for _, item := range b {
		assert.Equal(t, fixtures.StoreB, item.StoreID)
	}
}
