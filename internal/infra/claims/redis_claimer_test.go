package claims

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

// setupTestRedis connects to TEST_REDIS_ADDR. Tests are skipped when Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRedisClaimerValidation(t *testing.T) {
	_, err := NewRedisClaimer(nil, time.Minute)
	assert.Error(t, err)

	_, err = NewRedisClaimer(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0)
	assert.Error(t, err)
}

func TestRedisClaimerClaim(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	claimer, err := NewRedisClaimer(client, time.Minute)
	require.NoError(t, err)
	claimer.prefix = "test:" + uuid.NewString() + ":"

	ok, err := claimer.Claim(ctx, "j1", "run-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = claimer.Claim(ctx, "j1", "run-a")
	require.NoError(t, err)
	assert.True(t, ok, "holder may re-claim its own job")

	ok, err = claimer.Claim(ctx, "j1", "run-b")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, claimer.prefix+"j1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	client.Del(ctx, claimer.prefix+"j1")
}
