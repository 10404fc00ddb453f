// Package redis holds the Redis-backed stores of the vendor portal.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitStore is a fixed-window request counter shared by every replica.
// It satisfies middleware.Limiter.
type RateLimitStore struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimitStore allows limit requests per key in each window. scope
// separates counters of different routes.
func NewRateLimitStore(client *redis.Client, scope string, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		scope:  scope,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow increments the counter of key's current window and reports whether it
// is still within the limit.
func (s *RateLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	k := s.windowKey(key)

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr rate limit: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire rate limit: %w", err)
		}
	}

	return count <= s.limit, nil
}

func (s *RateLimitStore) windowKey(key string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return rateLimitKeyPrefix + s.scope + ":" + key + ":" + strconv.FormatInt(bucket, 10)
}
