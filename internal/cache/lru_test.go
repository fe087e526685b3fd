package cache

import (
	"testing"
	"time"
)

func TestLRUCacheBasicOperations(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", "1")
	c.Set("b", "2")

	if got, ok := c.Get("a"); !ok || got != "1" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}

	c.Set("a", "updated")
	if got, _ := c.Get("a"); got != "updated" {
		t.Fatalf("overwrite lost: %q", got)
	}
	if c.Size() != 2 {
		t.Fatalf("overwrite must not grow cache, size = %d", c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key should miss")
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now more recent than b
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should be present")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be dropped on Get, size = %d", c.Size())
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestRegisterWhileCleanupRunning(t *testing.T) {
	m := NewManager()
	m.StartCleanup(time.Millisecond)
	defer m.Stop()

	// Registration after startup must not race the cleanup loop's iteration.
	for i := 0; i < 100; i++ {
		c := NewLRUCache[int](4, time.Nanosecond)
		c.Set("k", i)
		m.Register(c)
	}
	time.Sleep(5 * time.Millisecond)
}

func TestManagerCleanupLoop(t *testing.T) {
	c := NewLRUCache[int](10, 5*time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.After(time.Second)
	for c.Size() != 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup loop never evicted the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
