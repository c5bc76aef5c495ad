// Package cache provides a small generic TTL cache used as the explicit
// read-through layer in front of report building. Entries are keyed by the
// full filter parameter tuple and dropped by write-through invalidation on
// every mutation; there is no ambient global state.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTL is a concurrency-safe cache with per-store expiry.
type TTL[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
}

// NewTTL creates a cache whose entries expire ttl after being set.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// Get retrieves a live value from the cache.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache.
func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete removes a single key.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge empties the cache. Mutating operations call this so every
// subsequent read recomputes from the store.
func (c *TTL[T]) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Size returns the current number of entries, expired or not.
func (c *TTL[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CleanExpired removes expired entries and reports how many were dropped.
func (c *TTL[T]) CleanExpired() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	cleaned := 0
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			cleaned++
		}
	}
	return cleaned
}
