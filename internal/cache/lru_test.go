package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3) // evicts b, a was used more recently

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %d %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestLRUCacheTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should still be live")
	}
	now = now.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
}

func TestLRUCacheAdd(t *testing.T) {
	c := NewLRUCache[struct{}](4, 0)
	if !c.Add("id-1", struct{}{}) {
		t.Fatal("first add should succeed")
	}
	if c.Add("id-1", struct{}{}) {
		t.Fatal("second add should report existing key")
	}
	c.Delete("id-1")
	if !c.Add("id-1", struct{}{}) {
		t.Fatal("add after delete should succeed")
	}
}

func TestLRUCacheAddIsAtomic(t *testing.T) {
	c := NewLRUCache[struct{}](4, 0)

	var wg sync.WaitGroup
	var added atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Add("id-1", struct{}{}) {
				added.Add(1)
			}
		}()
	}
	wg.Wait()

	if added.Load() != 1 {
		t.Fatalf("expected exactly one successful add, got %d", added.Load())
	}
}

func TestLRUCacheAddReplacesExpired(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[struct{}](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Add("id-1", struct{}{})
	now = now.Add(2 * time.Minute)
	if !c.Add("id-1", struct{}{}) {
		t.Fatal("expired key should be added again")
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewJanitor(time.Millisecond, NewLRUCache[int](1, time.Millisecond)).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
