package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisAdapter(client), mr
}

func TestRedisGetMiss(t *testing.T) {
	cache, _ := newTestAdapter(t)

	_, err := cache.Get(context.Background(), "catalog:motorbikes")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisSetGetExpire(t *testing.T) {
	cache, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "motorbike:m1", []byte(`{"id":"m1"}`), time.Minute))

	got, err := cache.Get(ctx, "motorbike:m1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1"}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Get(ctx, "motorbike:m1")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisDelete(t *testing.T) {
	cache, mr := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, cache.Delete(ctx, "a", "missing"))
	require.NoError(t, cache.Delete(ctx))

	assert.False(t, mr.Exists("a"))
	assert.True(t, mr.Exists("b"))
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

