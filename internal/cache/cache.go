package cache

import (
	"sync"

	"parkchat/internal/domain"
)

// ResponseCache memoizes rendered documents by normalized input text.
// Concurrent first-time requests for the same key may each compute and
// redundantly store; last write wins. Documents are shared between
// callers and must be treated as immutable.
type ResponseCache struct {
	mu         sync.RWMutex
	data       map[string]domain.ResponseDocument
	maxEntries int
}

// Stats is the observability snapshot exposed on the performance
// endpoint.
type Stats struct {
	ResponseCacheSize int `json:"response_cache_size"`
	MaxEntries        int `json:"max_entries"`
}

// New creates a cache bounded to maxEntries documents. maxEntries <= 0
// disables the bound.
func New(maxEntries int) *ResponseCache {
	return &ResponseCache{
		data:       make(map[string]domain.ResponseDocument),
		maxEntries: maxEntries,
	}
}

// GetOrCompute returns the cached document for key, invoking compute
// on a miss. compute runs outside the lock so a slow resolution does
// not serialize unrelated requests, and additionally reports whether
// its document may be stored: a terminal error document must stay out
// of the cache so a transient failure is not replayed forever. The
// second return reports whether the document came from the cache.
func (c *ResponseCache) GetOrCompute(key string, compute func() (domain.ResponseDocument, bool)) (domain.ResponseDocument, bool) {
	c.mu.RLock()
	doc, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		return doc, true
	}

	doc, cacheable := compute()
	if !cacheable {
		return doc, false
	}

	c.mu.Lock()
	if c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		if _, exists := c.data[key]; !exists {
			c.evictOneLocked()
		}
	}
	c.data[key] = doc
	c.mu.Unlock()
	return doc, false
}

// Get returns the cached document for key without computing.
func (c *ResponseCache) Get(key string) (domain.ResponseDocument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.data[key]
	return doc, ok
}

// Clear empties the cache.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]domain.ResponseDocument)
}

// Stats reports entry counts.
func (c *ResponseCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		ResponseCacheSize: len(c.data),
		MaxEntries:        c.maxEntries,
	}
}

// evictOneLocked drops one arbitrary entry. Map iteration order makes
// the victim effectively random, which is sufficient for a cache of
// repeated short queries.
func (c *ResponseCache) evictOneLocked() {
	for k := range c.data {
		delete(c.data, k)
		return
	}
}
