package memory

import (
	"context"
	"sync"

	"github.com/bapesu/storefront-api/internal/domains/cart/domain"
	"github.com/bapesu/storefront-api/internal/domains/cart/ports"
)

var _ ports.CacheStore = (*Cache)(nil)

// Cache is an in-memory cart cache for development and tests.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func NewCache() *Cache {
	return &Cache{snapshots: map[string]domain.Snapshot{}}
}

func (c *Cache) Load(_ context.Context, userID string) (domain.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshots[userID], nil
}

func (c *Cache) Save(_ context.Context, userID string, snapshot domain.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[userID] = snapshot
	return nil
}
