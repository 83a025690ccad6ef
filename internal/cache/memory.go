package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps extracted text in process memory, bounded by a byte
// budget. Entries larger than the budget are not kept; when the budget
// is exceeded the entries closest to expiry are evicted first.
type MemoryCache struct {
	cache    *gocache.Cache
	maxBytes int64 // 0 means unbounded
	size     atomic.Int64
	setMu    sync.Mutex // serializes Set and Clear; never taken in OnEvicted
}

// NewMemoryCache creates a memory layer. maxBytes <= 0 leaves it unbounded.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, maxBytes int64) *MemoryCache {
	c := &MemoryCache{
		cache:    gocache.New(defaultTTL, cleanupInterval),
		maxBytes: max(maxBytes, 0),
	}
	// Called by Delete, DeleteExpired and the janitor, not by Set or Flush
	c.cache.OnEvicted(func(_ string, v interface{}) {
		if data, ok := v.([]byte); ok {
			c.size.Add(-int64(len(data)))
		}
	})
	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		if data, ok := val.([]byte); ok {
			return data, true
		}
	}
	return nil, false
}

// Set stores value with the given TTL; 0 uses the default
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	n := int64(len(value))

	c.setMu.Lock()
	defer c.setMu.Unlock()

	c.cache.Delete(key)
	if c.maxBytes > 0 {
		if n > c.maxBytes {
			return nil
		}
		if c.size.Load()+n > c.maxBytes {
			c.cache.DeleteExpired()
			c.evict(c.size.Load() + n - c.maxBytes)
		}
	}

	c.cache.Set(key, value, ttl)
	c.size.Add(n)
	return nil
}

// evict removes live entries, soonest expiry first, until need bytes
// are freed. Must be called with setMu held.
func (c *MemoryCache) evict(need int64) {
	if need <= 0 {
		return
	}
	items := c.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := items[keys[i]].Expiration, items[keys[j]].Expiration
		if (a == 0) != (b == 0) {
			return b == 0
		}
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		if need <= 0 {
			return
		}
		if data, ok := items[k].Object.([]byte); ok {
			need -= int64(len(data))
		}
		c.cache.Delete(k)
	}
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.setMu.Lock()
	defer c.setMu.Unlock()
	c.cache.Flush()
	c.size.Store(0)
	return nil
}
