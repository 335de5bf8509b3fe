package cache

import (
	"sync"

	"github.com/TemirB/orders-cache/internal/domain"
)

// Cache is the in-memory view of every persisted order. It has no eviction:
// the whole working set stays resident for the process lifetime.
type Cache struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func New() *Cache {
	return &Cache{orders: make(map[string]domain.Order)}
}

// Restore builds a cache from a full snapshot of the store. It must be
// called before the cache is shared between goroutines.
func Restore(snapshot []domain.Order) *Cache {
	c := &Cache{orders: make(map[string]domain.Order, len(snapshot))}
	for _, o := range snapshot {
		c.orders[o.UID()] = o
	}
	return c
}

// Insert adds or replaces the entry for the order's uid. Last write wins.
func (c *Cache) Insert(order domain.Order) {
	c.mu.Lock()
	c.orders[order.UID()] = order
	c.mu.Unlock()
}

func (c *Cache) Get(uid string) (domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders[uid]
	return o, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}
