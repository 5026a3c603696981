// Package cache implements the process-wide TTL cache used by the prediction
// engine. Entries expire by TTL only; there is no size-based eviction. For a
// single analytical process the key space is bounded by operations × domains,
// so unbounded growth is accepted and exposed to operators via Len.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.storedAt.Add(e.ttl))
}

// Cache is a concurrency-safe key/value store with per-entry expiry.
// Same-key writes are last-write-wins; entries are replaced, never patched.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache using wall-clock time.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a cache with an injected clock. Tests use this to
// simulate TTL expiry without sleeping.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{entries: map[string]entry{}, now: now}
}

// Get returns the stored value if the entry exists and has not expired.
// Expired entries are removed lazily on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, ok := c.entries[key]; ok && cur.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores the value under key for the given TTL, replacing any existing
// entry. A non-positive TTL is a no-op: the entry would already be stale.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Invalidate removes the entry for key if present.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included until they
// are touched. Exposed so operators can watch key growth.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
