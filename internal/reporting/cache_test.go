package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyTrialBalance("2025"))
	require.NoError(t, err)

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]float64{"total": 42}, nil
	}

	var first map[string]float64
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 42.0, first["total"])
	require.Equal(t, 1, calls)

	var second map[string]float64
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 42.0, second["total"])
	require.Equal(t, 1, calls, "second fetch must hit the cache")
}

func TestCacheFetchJSONLoaderError(t *testing.T) {
	cache, _ := newTestCache(t)
	boom := errors.New("boom")
	err := cache.FetchJSON(context.Background(), "k", new(int), func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keyAging())
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keyAging())
	require.NoError(t, err)
	require.NotEqual(t, before, after, "bump must rotate every cache key")
}

func TestCacheNilDegradesToLoader(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyBalanceSheet())
	require.NoError(t, err)

	calls := 0
	var out int
	for i := 0; i < 2; i++ {
		require.NoError(t, cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
			calls++
			return 7, nil
		}))
	}
	require.Equal(t, 7, out)
	require.Equal(t, 2, calls, "nil cache recomputes every call")
	require.NoError(t, cache.Bump(ctx))
}

func TestCacheVersionKeyFormats(t *testing.T) {
	require.Equal(t, "reporting:trial_balance:all", keyTrialBalance(""))
	require.Equal(t, "reporting:trial_balance:2025", keyTrialBalance("2025"))
	require.Equal(t, "reporting:budget_variance:2025-03", keyVariance("2025-03"))
	require.Equal(t, "reporting:budget_variance:all", keyVariance(""))
}
