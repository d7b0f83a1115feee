package analytics

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL is how long cached analytics stay valid.
const DefaultCacheTTL = time.Hour

// Cache is a concurrency-safe in-process store with per-entry TTL.
//
// Expiry is lazy: stale entries are evicted when read, there is no
// background sweeper. Writes replace entries wholesale, so a reader
// never observes a partially updated value.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is replaceable in tests.
	now func() time.Time
}

type cacheEntry struct {
	value      any
	insertedAt time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL
// falls back to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached value for key. A stale entry is evicted and
// reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key, replacing any previous entry and
// resetting its age.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, insertedAt: c.now()}
}

// Delete evicts a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries currently held, stale ones
// included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SummaryKey derives the cache key for a windowed summary. An empty
// roomID addresses all rooms.
func SummaryKey(roomID string, periodDays int) string {
	if roomID == "" {
		return fmt.Sprintf("analytics_all_rooms_period_%dd", periodDays)
	}
	return fmt.Sprintf("analytics_room_%s_period_%dd", roomID, periodDays)
}
