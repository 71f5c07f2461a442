package render

import (
	"container/list"
	"sync"
)

// layoutCache is a small LRU over rendered layouts. Entries carry the
// model version inside their key, so a load naturally orphans stale
// entries and the bound evicts them.
type layoutCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key    string
	layout *Layout
}

func newLayoutCache(capacity int) *layoutCache {
	return &layoutCache{
		capacity: capacity,
		order:    list.New(),
		entries:  map[string]*list.Element{},
	}
}

func (c *layoutCache) get(key string) (*Layout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).layout, true
}

func (c *layoutCache) put(key string, layout *Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).layout = layout
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, layout: layout})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
