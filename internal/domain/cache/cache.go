// Package cache provides the bounded in-memory result cache used to avoid
// repeating identical external lookups.
package cache

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultMaxSize bounds the cache when no size is configured.
const defaultMaxSize = 256

// Cache stores values by key until evicted or cleared.
type Cache[K comparable, V any] interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key K) (V, bool)
	// Put stores value under key, evicting the least recently used entry when full.
	Put(ctx context.Context, key K, value V)
	// Clear drops every entry. The next Get for any key misses.
	Clear(ctx context.Context)
	// Len returns the number of cached entries.
	Len() int
	// Stats returns hit and miss counts since creation.
	Stats() (hits, misses int64)
}

type lruCache[K comparable, V any] struct {
	entries *lru.Cache[K, V]
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a bounded in-memory cache.
func New[K comparable, V any](opts ...Option) Cache[K, V] {
	cfg := config{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	entries, err := lru.New[K, V](cfg.maxSize)
	if err != nil {
		// only reachable with a non-positive size, which options reject
		entries, _ = lru.New[K, V](defaultMaxSize)
	}
	return &lruCache[K, V]{entries: entries}
}

func (c *lruCache[K, V]) Get(_ context.Context, key K) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *lruCache[K, V]) Put(_ context.Context, key K, value V) {
	c.entries.Add(key, value)
}

func (c *lruCache[K, V]) Clear(_ context.Context) {
	c.entries.Purge()
}

func (c *lruCache[K, V]) Len() int {
	return c.entries.Len()
}

func (c *lruCache[K, V]) Stats() (int64, int64) {
	return c.hits.Load(), c.misses.Load()
}
