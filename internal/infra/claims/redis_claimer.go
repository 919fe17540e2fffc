// Package claims reserves expired jobs in Redis so overlapping cleanup runs
// do not notify the same poster twice.
package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "cpghub:cleanup:claim:"

// RedisClaimer implements app.Claimer with SET NX.
type RedisClaimer struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisClaimer builds a claimer. ttl bounds how long a crashed run can hold a job.
func NewRedisClaimer(client redis.UniversalClient, ttl time.Duration) (*RedisClaimer, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("claim ttl must be positive")
	}
	return &RedisClaimer{client: client, prefix: defaultPrefix, ttl: ttl}, nil
}

// Claim returns true when runID now holds jobID, or already held it.
func (c *RedisClaimer) Claim(ctx context.Context, jobID, runID string) (bool, error) {
	key := c.prefix + jobID
	ok, err := c.client.SetNX(ctx, key, runID, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if ok {
		return true, nil
	}

	holder, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; let the next run pick it up.
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return holder == runID, nil
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
