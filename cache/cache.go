// Package cache provides a string keyed cache of values with a fixed time
// to live.
//
// Values are deep copied when stored and when returned, so callers never
// share containers with the cache. Expired entries are evicted when they are
// read and by Cleanup. There is no background goroutine.
package cache

import (
	"sync"
	"time"

	"github.com/chaisql/llsd/lib/atomic"
	"github.com/chaisql/llsd/types"
)

type entry struct {
	value    types.Value
	storedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry

	hits      atomic.Counter
	misses    atomic.Counter
	evictions atomic.Counter
}

// An Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the clock used to timestamp and expire entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New returns a cache whose entries expire once their age reaches ttl.
// A ttl of zero or less disables expiry.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// TTL returns the time to live of the cache entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) expired(e entry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.storedAt) >= c.ttl
}

// Put stores a copy of v under key, replacing any previous entry.
func (c *Cache) Put(key string, v types.Value) {
	e := entry{value: types.Clone(v)}

	c.mu.Lock()
	e.storedAt = c.now()
	c.entries[key] = e
	c.mu.Unlock()
}

// Get returns a copy of the value stored under key. An expired entry is
// evicted and reported as a miss.
func (c *Cache) Get(key string) (types.Value, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.expired(e, c.now()) {
		delete(c.entries, key)
		c.evictions.Incr()
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Incr()
		return nil, false
	}

	c.hits.Incr()
	return types.Clone(e.value), true
}

// Contains reports whether key holds a live entry. Like Get, it evicts an
// expired entry but it does not touch the hit and miss counters.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.expired(e, c.now()) {
		delete(c.entries, key)
		c.evictions.Incr()
		return false
	}

	return ok
}

// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Size returns the number of stored entries, expired ones included until
// they are evicted.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Cleanup evicts every expired entry and returns how many were removed.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var n int
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			n++
		}
	}

	c.evictions.Add(int64(n))
	return n
}

// Stats holds the counters of a cache since its creation.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns the share of lookups that were hits, or 0 without lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Get(),
		Misses:    c.misses.Get(),
		Evictions: c.evictions.Get(),
	}
}
