package loader

import "sync"

// DefaultCacheBytes bounds the remote fetch cache.
const DefaultCacheBytes = 256 << 20

// Cache keeps fetched asset bytes by URL. When the byte budget is exceeded
// the oldest entries are evicted first.
type Cache struct {
	mu    sync.RWMutex
	data  map[string][]byte
	order []string
	size  int
	limit int

	hits   int
	misses int
}

// NewCache creates a cache holding at most limit bytes.
func NewCache(limit int) *Cache {
	return &Cache{data: make(map[string][]byte), limit: limit}
}

// Get returns cached bytes for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores data under key. Entries larger than the whole budget are not kept.
func (c *Cache) Set(key string, data []byte) {
	if len(data) > c.limit {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.data[key]; ok {
		c.size -= len(old)
		c.removeOrder(key)
	}
	c.data[key] = data
	c.order = append(c.order, key)
	c.size += len(data)

	for c.size > c.limit && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.size -= len(c.data[oldest])
		delete(c.data, oldest)
	}
}

// Invalidate drops key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.data[key]; ok {
		c.size -= len(old)
		delete(c.data, key)
		c.removeOrder(key)
	}
}

// Clear empties the cache and resets its stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.order = nil
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Size returns the cached byte count.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

func (c *Cache) removeOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
