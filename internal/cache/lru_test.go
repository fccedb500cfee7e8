package cache

import (
	"testing"
	"time"
)

func TestLRU_Evicts(t *testing.T) {
	c := New[string, int](2, 0)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a") // a is now MRU
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestLRU_Expiry(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c := New[string, string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Add("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("fresh get = %q, %v", v, ok)
	}
	now = now.Add(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry kept, len = %d", c.Len())
	}
}

func TestLRU_UpdateRefreshes(t *testing.T) {
	c := New[int, string](1, 0)
	c.Add(1, "x")
	c.Add(1, "y")
	if v, _ := c.Get(1); v != "y" {
		t.Fatalf("v = %q", v)
	}
}
