package segment

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/redis"
)

// RedisCache stores segments as JSON in Redis so cached data is shared
// between replicas and survives restarts. Read failures and corrupt
// payloads degrade to cache misses.
type RedisCache[T any] struct {
	client redis.Client
	ttl    time.Duration
	log    *logger.ScopedLogger
}

// NewRedisCache wraps an existing Redis client. Key prefixing is the
// client's concern; keys here are raw segment keys.
func NewRedisCache[T any](client redis.Client, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{
		client: client,
		ttl:    ttl,
		log:    logger.WithScope("segment-cache"),
	}
}

// Get returns the cached segment for key if present.
func (c *RedisCache[T]) Get(ctx context.Context, key Key) (T, bool) {
	var zero T

	raw, err := c.client.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Debug().Err(err).Str("key", key.String()).Msg("Segment cache read failed")
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		c.log.Warn().Err(err).Str("key", key.String()).Msg("Dropping corrupt cached segment")
		_ = c.client.Delete(ctx, key.String())
		return zero, false
	}
	return value, true
}

// Set stores a segment with the cache TTL.
func (c *RedisCache[T]) Set(ctx context.Context, key Key, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal segment %s: %w", key.String(), err)
	}
	return c.client.Set(ctx, key.String(), data, c.ttl)
}

// Delete drops the segment for key.
func (c *RedisCache[T]) Delete(ctx context.Context, key Key) error {
	return c.client.Delete(ctx, key.String())
}
