package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, prefix, time.Minute)
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})
	return c
}

type item struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := setupTestCache(t, "shopadmin-test:roundtrip:")
	ctx := context.Background()

	var got item
	found, err := c.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "product:1", item{ID: 1, Title: "Lamp"}))

	found, err = c.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{ID: 1, Title: "Lamp"}, got)

	require.NoError(t, c.Delete(ctx, "product:1"))
	found, err = c.Get(ctx, "product:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	s := c.Stats()
	assert.EqualValues(t, 1, s.Hits)
	assert.EqualValues(t, 2, s.Misses)
	assert.EqualValues(t, 1, s.Sets)
	assert.EqualValues(t, 1, s.Deletes)
}

func TestConnectFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := Connect(ctx, Config{RedisAddr: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestNoopAlwaysMisses(t *testing.T) {
	var s Store = Noop{}
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", 1))
	var v int
	found, err := s.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, s.Delete(ctx, "k"))
}
