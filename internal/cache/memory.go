package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the fast layer of the report cache: encoded reports held in
// process memory under their case-digest key, evicted per entry when the TTL
// lapses. It serves repeated case descriptions within one batch run; the disk
// layer covers runs of the same input file across process restarts.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates the in-process report cache. defaultTTL caps how
// long a report is served without recomputation; cleanupInterval is how often
// expired reports are swept.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the encoded report stored under a case key
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores an encoded report under its case key. A zero ttl falls back to
// the cache's default TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete evicts one case's report
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear evicts every cached report
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
