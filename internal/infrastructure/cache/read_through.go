package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Stats is a point-in-time snapshot of cache effectiveness
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// ComputeFunc produces the value for a key on a cache miss
type ComputeFunc func(ctx context.Context) ([]byte, error)

// ReadThroughCache wraps a Store with miss-time computation. Concurrent
// misses on the same key are collapsed into a single computation and the
// result, success or failure, is shared by every waiter. Failed
// computations are never cached, so the next request retries.
type ReadThroughCache struct {
	store Store
	group singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewReadThroughCache wraps the given backend store
func NewReadThroughCache(store Store) *ReadThroughCache {
	return &ReadThroughCache{store: store}
}

// GetOrCompute returns the cached value for key, computing and caching it
// with the given ttl on a miss
func (c *ReadThroughCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) ([]byte, error) {
	if value, ok, err := c.store.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		c.hits.Add(1)
		return value, nil
	}
	c.misses.Add(1)

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A peer may have filled the key while we waited for the flight
		if value, ok, err := c.store.Get(ctx, key); err == nil && ok {
			return value, nil
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, key, value, ttl); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Invalidate removes every cached entry matching the glob pattern
func (c *ReadThroughCache) Invalidate(ctx context.Context, pattern string) (int64, error) {
	return c.store.Delete(ctx, pattern)
}

// InvalidateByPrefix removes every cached entry whose key starts with prefix
func (c *ReadThroughCache) InvalidateByPrefix(ctx context.Context, prefix string) (int64, error) {
	return c.store.Delete(ctx, prefix+"*")
}

// Stats returns hit and miss counters for this cache instance
func (c *ReadThroughCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return Stats{Hits: hits, Misses: misses, HitRate: rate}
}

// Close releases the backing store
func (c *ReadThroughCache) Close() error {
	return c.store.Close()
}
