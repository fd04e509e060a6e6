// Package cache memoizes values built from string keys.
package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Stats counts cache activity since creation or the last Purge.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache is a mutex-guarded LRU of built values. Concurrent builds of the
// same key are collapsed into one, so a key is built at most once while it
// stays cached. Failed builds are not stored.
type Cache[V any] struct {
	mutex    sync.Mutex
	entries  *lru.Cache
	group    singleflight.Group
	capacity int
	stats    Stats
	logger   *zap.Logger
}

// New creates a cache holding at most capacity entries.
// A capacity of zero or less means unbounded.
func New[V any](capacity int, logger *zap.Logger) *Cache[V] {
	if capacity < 0 {
		capacity = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache[V]{capacity: capacity, logger: logger}
	c.entries = c.newLRU()
	return c
}

func (c *Cache[V]) newLRU() *lru.Cache {
	entries := lru.New(c.capacity)
	// called with c.mutex held
	entries.OnEvicted = func(key lru.Key, _ interface{}) {
		c.stats.Evictions++
		c.logger.Debug("cache eviction", zap.Any("key", key))
	}
	return entries
}

// GetOrBuild returns the value cached under key, calling build on a miss.
// Callers racing on the same missing key share a single build call.
func (c *Cache[V]) GetOrBuild(key string, build func() (V, error)) (V, error) {
	c.mutex.Lock()
	if v, ok := c.lookup(key); ok {
		c.stats.Hits++
		c.mutex.Unlock()
		c.logger.Debug("cache hit", zap.String("key", key))
		return v, nil
	}
	c.stats.Misses++
	c.mutex.Unlock()

	res, err, shared := c.group.Do(key, func() (interface{}, error) {
		// a previous flight may have stored the key after our lookup
		c.mutex.Lock()
		if v, ok := c.lookup(key); ok {
			c.mutex.Unlock()
			return v, nil
		}
		c.mutex.Unlock()

		v, err := build()
		if err != nil {
			return nil, err
		}

		c.mutex.Lock()
		c.entries.Add(key, v)
		c.mutex.Unlock()
		return v, nil
	})
	c.logger.Debug("cache miss", zap.String("key", key), zap.Bool("shared", shared), zap.Error(err))

	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Get returns the cached value for key without building it.
// It does not affect Stats.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lookup(key)
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	raw, ok := c.entries.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	v, _ := raw.(V)
	return v, true
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.entries.Len()
}

// Capacity returns the configured bound, zero when unbounded.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Purge drops every entry and resets Stats.
func (c *Cache[V]) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = c.newLRU()
	c.stats = Stats{}
	c.logger.Debug("cache purged")
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stats
}
