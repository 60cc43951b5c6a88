package cache

import (
	"context"
	"testing"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, config.RedisConfig{Addr: mr.Addr()}, time.Minute)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "search:abc")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "search:abc", "[4,2]"))
	assert.True(t, mr.Exists(keyPrefix+"search:abc"))

	v, err := store.Get(ctx, "search:abc")
	require.NoError(t, err)
	assert.Equal(t, "[4,2]", v)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "search:abc")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	stats := store.Stats()
	assert.Equal(t, config.CacheBackendRedis, stats.Backend)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Zero(t, stats.Errors)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := NewRedisStoreWithClient(client, time.Minute)
	defer store.Close()

	mr.Close()

	ctx := context.Background()
	_, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrCacheMiss)
	assert.Error(t, store.Set(ctx, "k", "v"))
	assert.Equal(t, int64(2), store.Stats().Errors)
}

func TestNewRedisStoreConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), config.RedisConfig{Addr: addr}, time.Minute)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
