package lazy

import "testing"

func cacheKey(s string) *Registered[string] {
	return newRegistered(s)
}

func cacheValue() []*Registered[any] {
	return []*Registered[any]{newRegistered[any]("v")}
}

func TestCacheMiss(t *testing.T) {
	c := newBoundedCache(2)

	if _, ok := c.get(cacheKey("absent")); ok {
		t.Error("expected a miss on an empty cache")
	}
}

func TestCacheSetGet(t *testing.T) {
	c := newBoundedCache(2)
	k := cacheKey("a")
	v := cacheValue()

	if evicted := c.set(k, v); evicted {
		t.Error("expected no eviction below capacity")
	}
	got, ok := c.get(k)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got) != 1 || got[0] != v[0] {
		t.Error("expected the stored elements back")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	c := newBoundedCache(2)
	k1, k2, k3 := cacheKey("a"), cacheKey("b"), cacheKey("c")

	c.set(k1, cacheValue())
	c.set(k2, cacheValue())

	// A hit must not reorder: k1 stays the oldest.
	if _, ok := c.get(k1); !ok {
		t.Fatal("expected k1 present")
	}

	if evicted := c.set(k3, cacheValue()); !evicted {
		t.Error("expected an eviction at capacity")
	}
	if _, ok := c.get(k1); ok {
		t.Error("expected the oldest entry evicted")
	}
	if _, ok := c.get(k2); !ok {
		t.Error("expected k2 retained")
	}
	if _, ok := c.get(k3); !ok {
		t.Error("expected k3 retained")
	}
	if c.len() != 2 {
		t.Errorf("expected len 2, got %d", c.len())
	}
}

func TestCacheDuplicateInsertPanics(t *testing.T) {
	c := newBoundedCache(2)
	k := cacheKey("a")
	c.set(k, cacheValue())

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate insertion")
		}
	}()
	c.set(k, cacheValue())
}

func TestCacheRemove(t *testing.T) {
	c := newBoundedCache(2)
	k1, k2 := cacheKey("a"), cacheKey("b")
	c.set(k1, cacheValue())
	c.set(k2, cacheValue())

	c.remove(k1.serial)
	if _, ok := c.get(k1); ok {
		t.Error("expected removed entry gone")
	}
	if c.len() != 1 {
		t.Errorf("expected len 1, got %d", c.len())
	}

	// Removing an absent serial is a no-op.
	c.remove(k1.serial)
	if c.len() != 1 {
		t.Errorf("expected len 1 after no-op remove, got %d", c.len())
	}
}
