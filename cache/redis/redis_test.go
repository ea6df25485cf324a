package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicles-dashboard/cache"
)

func newTestCache(t *testing.T, opts cache.Options) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	opts.Addr = srv.Addr()
	c := New(opts)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestCacheRoundTrip(t *testing.T) {
	c, srv := newTestCache(t, cache.Options{})
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Get(ctx, "view:v1:price:00")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Set(ctx, "view:v1:price:00", []byte(`{"caption":"3 listings"}`), 0))
	got, err := c.Get(ctx, "view:v1:price:00")
	require.NoError(t, err)
	assert.Equal(t, `{"caption":"3 listings"}`, string(got))

	assert.True(t, srv.Exists(DefaultPrefix+"view:v1:price:00"), "keys are namespaced")
	assert.Equal(t, cache.DefaultTTL, srv.TTL(DefaultPrefix+"view:v1:price:00"))

	require.NoError(t, c.Delete(ctx, "view:v1:price:00"))
	_, err = c.Get(ctx, "view:v1:price:00")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCacheTTL(t *testing.T) {
	c, srv := newTestCache(t, cache.Options{TTL: time.Minute, Prefix: "test:"})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 5*time.Second))
	assert.Equal(t, time.Minute, srv.TTL("test:a"))
	assert.Equal(t, 5*time.Second, srv.TTL("test:b"))

	srv.FastForward(6 * time.Second)
	_, err := c.Get(ctx, "b")
	assert.ErrorIs(t, err, cache.ErrMiss)
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestCacheServerDown(t *testing.T) {
	c, srv := newTestCache(t, cache.Options{})
	srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
}
