package catalog

import (
	"sync"
	"time"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = 24 * time.Hour

// Cache holds the most recently fetched catalog with a time-to-live.
// Expired entries stay retrievable through GetStale so the catalog can
// degrade gracefully when the remote API is down.
type Cache struct {
	mu        sync.Mutex
	exercises []Exercise
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// CacheStatus describes the state of a cache for diagnostics.
type CacheStatus struct {
	Cached    bool
	Fresh     bool
	Count     int
	FetchedAt time.Time
	Age       time.Duration
}

// NewCache creates an empty cache with the given time-to-live.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// NewCacheWithClock is NewCache with an injectable clock for tests.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{ttl: ttl, now: now}
}

// Get returns the cached exercises if they are still fresh.
func (c *Cache) Get() ([]Exercise, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exercises == nil || c.now().Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.exercises, true
}

// GetStale returns the cached exercises regardless of freshness.
func (c *Cache) GetStale() ([]Exercise, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exercises == nil {
		return nil, false
	}
	return c.exercises, true
}

// Set stores a freshly fetched catalog.
func (c *Cache) Set(exercises []Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = exercises
	c.fetchedAt = c.now()
}

// Clear drops the cached catalog.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = nil
	c.fetchedAt = time.Time{}
}

// Status reports whether anything is cached and how old it is.
func (c *Cache) Status() CacheStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exercises == nil {
		return CacheStatus{}
	}
	age := c.now().Sub(c.fetchedAt)
	return CacheStatus{
		Cached:    true,
		Fresh:     age <= c.ttl,
		Count:     len(c.exercises),
		FetchedAt: c.fetchedAt,
		Age:       age,
	}
}
