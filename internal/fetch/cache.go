// Package fetch - cache.go provides an in-memory TTL cache so repeated
// extraction attempts on the same URL are idempotent within a process.
package fetch

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a fetched page is reused.
const DefaultCacheTTL = 15 * time.Minute

type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// TextCache caches extracted job text per URL.
type TextCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewTextCache creates a cache with the given TTL (DefaultCacheTTL if zero).
func NewTextCache(ttl time.Duration) *TextCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &TextCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached text for a URL, if present and fresh.
func (c *TextCache) Get(url string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return "", false
	}
	return entry.text, true
}

// Put stores extracted text for a URL.
func (c *TextCache) Put(url, text string) {
	c.mu.Lock()
	c.entries[url] = cacheEntry{text: text, fetchedAt: time.Now()}
	c.mu.Unlock()
}
