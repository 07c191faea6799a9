package lazy

import (
	"fmt"
	"runtime"
	"sync"
)

// boundedCache maps a parameter fingerprint handle to a previously
// computed tuple of registered elements. It is bounded to a fixed
// capacity with plain FIFO eviction (a hit does not reorder entries,
// deliberately not LRU), and weak-keyed: a cleanup attached to the
// fingerprint handle drops the entry once the handle is collected.
type boundedCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64][]*Registered[any]
	order    []uint64
}

func newBoundedCache(capacity int) *boundedCache {
	return &boundedCache{
		capacity: capacity,
		entries:  make(map[uint64][]*Registered[any], capacity),
	}
}

func (c *boundedCache) get(key *Registered[string]) ([]*Registered[any], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elements, ok := c.entries[key.serial]
	return elements, ok
}

// set inserts under a fresh key, evicting the oldest entry at capacity.
// Inserting an existing key is a logic error: fingerprints are derived
// from registry identities, so a present key would have been a hit.
// Reports whether an entry was evicted.
func (c *boundedCache) set(key *Registered[string], elements []*Registered[any]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key.serial]; ok {
		panic(fmt.Sprintf("lazy: duplicate cache insertion for fingerprint %d", key.serial))
	}
	evicted := false
	if len(c.entries) == c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		evicted = true
	}
	c.entries[key.serial] = elements
	c.order = append(c.order, key.serial)
	runtime.AddCleanup(key, c.remove, key.serial)
	return evicted
}

func (c *boundedCache) remove(serial uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[serial]; !ok {
		return
	}
	delete(c.entries, serial)
	for i, s := range c.order {
		if s == serial {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *boundedCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
