package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)

	c.Set("a", "alpha")
	c.Set("b", "beta")

	if got, ok := c.Get("a"); !ok || got != "alpha" {
		t.Fatalf("Get(a) = %q, %v; want alpha, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) should report absence")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get(a) after Delete should report absence")
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh recency so b is the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should have survived eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should be present")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should not be returned")
	}
	if c.Size() != 0 {
		t.Fatalf("Size() = %d, want 0 after expired Get", c.Size())
	}
}

func TestLRUCacheSetRefreshesTTL(t *testing.T) {
	c := NewLRUCache[int](10, 40*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(25 * time.Millisecond)
	c.Set("a", 2)
	time.Sleep(25 * time.Millisecond)

	if got, ok := c.Get("a"); !ok || got != 2 {
		t.Fatalf("Get(a) = %d, %v; want 2, true after refresh", got, ok)
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(25 * time.Millisecond)
	c.Set("fresh", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry should survive cleanup")
	}
}

func TestDeduperFirstSight(t *testing.T) {
	d := NewDeduper(10, time.Minute)

	if !d.FirstSight("ws|1|2026-08|increase") {
		t.Fatal("first sighting should report true")
	}
	if d.FirstSight("ws|1|2026-08|increase") {
		t.Fatal("second sighting should report false")
	}
	if !d.FirstSight("ws|1|2026-09|increase") {
		t.Fatal("different key should report true")
	}

	d.Forget("ws|1|2026-08|increase")
	if !d.FirstSight("ws|1|2026-08|increase") {
		t.Fatal("forgotten key should count as first again")
	}
}

func TestDeduperTTLExpiry(t *testing.T) {
	d := NewDeduper(10, 10*time.Millisecond)

	if !d.FirstSight("key") {
		t.Fatal("first sighting should report true")
	}
	time.Sleep(25 * time.Millisecond)
	if !d.FirstSight("key") {
		t.Fatal("sighting after TTL should report true again")
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRUCache[int](10, 5*time.Millisecond)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.Now().Add(500 * time.Millisecond)
	for c.Size() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Size() != 0 {
		t.Fatalf("Size() = %d, want 0 after manager cleanup", c.Size())
	}
}
