// Package store holds generated report bundles in a bounded in-memory
// cache keyed by opaque report id.
package store

import (
	"sync"

	"github.com/ppiankov/nesshub/internal/models"
)

// DefaultCapacity matches the service default of 10 retained bundles.
const DefaultCapacity = 10

// Cache is a bounded bundle cache with insertion-order eviction: once the
// capacity is exceeded, the oldest bundle goes first. Safe for concurrent
// use by the HTTP handlers.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	bundles  map[string]*models.ReportBundle
}

// New creates a cache. Capacity below 1 falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		bundles:  make(map[string]*models.ReportBundle, capacity),
	}
}

// Put stores a bundle under its id, evicting the oldest entries once the
// capacity is exceeded. Storing an existing id refreshes the bundle but
// keeps its original insertion slot.
func (c *Cache) Put(bundle *models.ReportBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bundles[bundle.ID]; !exists {
		c.order = append(c.order, bundle.ID)
	}
	c.bundles[bundle.ID] = bundle

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.bundles, oldest)
	}
}

// Get returns the bundle for id, if still cached.
func (c *Cache) Get(id string) (*models.ReportBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bundle, ok := c.bundles[id]
	return bundle, ok
}

// Len reports the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.order)
}
