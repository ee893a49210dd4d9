// Package spy wraps a real cache in a partial double, so tests override single keys and let
// everything else reach the real implementation.
package spy

import "sync"

// Cache stores string values by key.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MapCache is an in-memory Cache.
type MapCache struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{values: make(map[string]string)}
}

// Get returns the value stored for key.
func (c *MapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.values[key]

	return value, ok
}

// Set stores value for key.
func (c *MapCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
}

// Warm copies every listed key from source into cache, reporting the keys source lacked.
func Warm(cache, source Cache, keys ...string) (missing []string) {
	for _, key := range keys {
		value, ok := source.Get(key)
		if !ok {
			missing = append(missing, key)

			continue
		}

		cache.Set(key, value)
	}

	return missing
}
