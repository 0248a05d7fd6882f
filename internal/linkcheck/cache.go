package linkcheck

import "sync"

// Cache remembers URLs previously confirmed reachable so repeated validation
// passes within one session skip the network. It is append-only and lives for
// the process lifetime; a restart clears it. False negatives across restarts
// are acceptable, a failing URL must never be added.
type Cache struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{urls: make(map[string]struct{})}
}

// Add marks a URL as reachable. Adding an already-present URL is harmless.
func (c *Cache) Add(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[url] = struct{}{}
}

// Contains reports whether a URL was previously confirmed reachable.
func (c *Cache) Contains(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.urls[url]
	return ok
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.urls)
}
