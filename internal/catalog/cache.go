package catalog

import "sync"

// entry is one cached per-service catalog snapshot.
type entry struct {
	service Service
	items   []Item
}

// Cache holds fetched catalog data keyed by service id. It is an explicit
// object injected into resolvers rather than a package-level map, so tests
// and independent builder sessions can own separate caches.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) get(serviceID string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[serviceID]
	return e, ok
}

func (c *Cache) put(serviceID string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[serviceID] = e
}

// Len reports how many services are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
