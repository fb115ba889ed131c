package dedupe

import (
	"sync"
	"time"
)

type entry struct {
	id string
	ts time.Time
}

// Cache keeps a bounded set of recently seen document IDs. The fetcher uses
// it to drop documents that several sources publish under the same identity.
type Cache struct {
	mu       sync.Mutex
	items    map[string]time.Time
	order    []entry
	capacity int
	ttl      time.Duration
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		items:    make(map[string]time.Time, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Seen records the document ID and reports whether it had already been
// recorded inside the ttl window. Check and mark happen under one lock so two
// sources racing on the same ID cannot both pass.
func (c *Cache) Seen(id string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if ts, ok := c.items[id]; ok && now.Sub(ts) <= c.ttl {
		return true
	}

	c.items[id] = now
	c.order = append(c.order, entry{id: id, ts: now})
	c.compact(now)
	return false
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if ts, ok := c.items[oldest.id]; ok && ts == oldest.ts {
			delete(c.items, oldest.id)
		}
	}
}
