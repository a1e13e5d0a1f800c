package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

type testEntry struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, "test", logging.NewNop(), metrics.NewCollector("cache_test_"+t.Name()))

	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := testEntry{Name: "Wheat", Price: 2450.5}
	require.NoError(t, c.SetJSON(ctx, "prices:punjab", in, time.Minute))

	var out testEntry
	hit, err := c.GetJSON(ctx, "prices:punjab", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out testEntry
	hit, err := c.GetJSON(context.Background(), "prices:missing", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "prices:haryana", testEntry{Name: "Rice"}, time.Second))

	mr.FastForward(2 * time.Second)

	var out testEntry
	hit, err := c.GetJSON(ctx, "prices:haryana", &out)
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire after its TTL")
}

func TestCacheCorruptEntryBehavesLikeMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("prices:bad", "{not-json"))

	var out testEntry
	hit, err := c.GetJSON(ctx, "prices:bad", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	// The unreadable entry is dropped so the next write can refill it.
	assert.False(t, mr.Exists("prices:bad"))
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k1", testEntry{}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "k2", testEntry{}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "k1", "k2"))

	var out testEntry
	hit, err := c.GetJSON(ctx, "k1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
