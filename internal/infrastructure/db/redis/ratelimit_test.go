package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter_Allow(t *testing.T) {
	client := testClient(t)
	l := NewRateLimiter(client, "test:ratelimit:", 3, time.Minute)
	key := uuid.NewString()
	ctx := context.Background()
	t.Cleanup(func() { _ = l.Reset(ctx, key) })

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.ResetAt.After(time.Now()))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	client := testClient(t)
	l := NewRateLimiter(client, "test:ratelimit:", 1, time.Minute)
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()
	t.Cleanup(func() {
		_ = l.Reset(ctx, a)
		_ = l.Reset(ctx, b)
	})

	res, err := l.Allow(ctx, a)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(ctx, b)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiter_Reset(t *testing.T) {
	client := testClient(t)
	l := NewRateLimiter(client, "test:ratelimit:", 1, time.Minute)
	ctx := context.Background()
	key := uuid.NewString()

	_, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.NoError(t, l.Reset(ctx, key))

	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	_ = l.Reset(ctx, key)
}
