package core

import (
	"container/list"
	"sync"
)

// resultCache keeps the most recent run results so their tables can be
// downloaded after the run returns. When full, the oldest entry is evicted.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // front = oldest
	entries  map[string]*list.Element // value is *RunResult
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// put stores r under its run ID. A zero or negative capacity disables caching.
func (c *resultCache) put(r *RunResult) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[r.Run.ID]; ok {
		el.Value = r
		return
	}

	c.entries[r.Run.ID] = c.order.PushBack(r)

	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*RunResult).Run.ID)
	}
}

func (c *resultCache) get(id string) (*RunResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*RunResult), true
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
