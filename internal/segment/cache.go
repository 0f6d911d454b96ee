package segment

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the cache surface the query path works against. Implementations
// must be safe for concurrent use. A Get miss carries no error detail: any
// backend failure degrades to a miss and the data store stays the source
// of truth.
type Store[T any] interface {
	Get(ctx context.Context, key Key) (T, bool)
	Set(ctx context.Context, key Key, value T) error
	Delete(ctx context.Context, key Key) error
}

// entry wraps a cached segment with its expiry.
type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// expired reports whether the entry has outlived its TTL. A zero expiry
// means the entry never expires.
func (e *entry[T]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryCache is an in-process LRU segment cache with per-entry TTL, for
// single-replica deployments. RedisCache shares segments across replicas.
type MemoryCache[T any] struct {
	entries *lru.Cache[string, *entry[T]]
	ttl     time.Duration
}

// NewMemoryCache creates a cache holding at most maxEntries segments.
// A ttl of zero or less disables expiry, leaving eviction to the LRU.
func NewMemoryCache[T any](maxEntries int, ttl time.Duration) (*MemoryCache[T], error) {
	entries, err := lru.New[string, *entry[T]](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment cache: %w", err)
	}
	return &MemoryCache[T]{entries: entries, ttl: ttl}, nil
}

// Get returns the cached segment for key if present and not expired.
func (c *MemoryCache[T]) Get(_ context.Context, key Key) (T, bool) {
	if cached, found := c.entries.Get(key.String()); found && !cached.expired() {
		return cached.data, true
	}
	var zero T
	return zero, false
}

// Set stores a segment, evicting the least recently used entry when full.
func (c *MemoryCache[T]) Set(_ context.Context, key Key, value T) error {
	e := &entry[T]{data: value}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.entries.Add(key.String(), e)
	return nil
}

// Delete drops the segment for key, if cached.
func (c *MemoryCache[T]) Delete(_ context.Context, key Key) error {
	c.entries.Remove(key.String())
	return nil
}

// Purge drops every cached segment, used when a well's data is reimported.
func (c *MemoryCache[T]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached segments, expired entries included.
func (c *MemoryCache[T]) Len() int {
	return c.entries.Len()
}
