package processor

import (
	"context"
	"sync"
	"testing"

	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewRedisAdapter(context.Background(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

type ensureCall struct {
	StoreID    string
	CustomerID string
}

type fakeEnsurer struct {
	mu    sync.Mutex
	calls []ensureCall
	err   error
}

func (f *fakeEnsurer) EnsureForCustomer(_ context.Context, storeID, customerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ensureCall{storeID, customerID})
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

func (f *fakeEnsurer) Calls() []ensureCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ensureCall(nil), f.calls...)
}
