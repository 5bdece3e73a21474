// Package cache provides an optional Redis-backed cache for the waitlist
// count. The service runs without it; every method on a nil cache is a safe
// no-op so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const countKey = "hackeurope:waitlist:count"

// Counts caches the waitlist size with a TTL.
type Counts struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCounts connects to Redis and returns a count cache. The connection is
// verified up front so a misconfigured address fails at startup, not on the
// first request.
func NewCounts(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*Counts, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Counts{client: client, ttl: ttl, log: log}, nil
}

// Get returns the cached count. A nil cache, an expired key, and a Redis
// failure all report a miss.
func (c *Counts) Get(ctx context.Context) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	value, err := c.client.Get(ctx, countKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("count cache read failed", zap.Error(err))
		}
		return 0, false
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		c.log.Warn("count cache held a non-numeric value", zap.String("value", value))
		return 0, false
	}
	return count, true
}

// Set stores the count with the configured TTL. Failures are logged, never
// surfaced; the cache is best effort.
func (c *Counts) Set(ctx context.Context, count int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, countKey, count, c.ttl).Err(); err != nil {
		c.log.Warn("count cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached count after a membership change.
func (c *Counts) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, countKey).Err(); err != nil {
		c.log.Warn("count cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *Counts) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
