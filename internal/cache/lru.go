// internal/cache/lru.go
//
// Small LRU cache with optional per-entry expiry.  Used by the Vault
// client to keep resolved secrets.  Safe for concurrent use; good for a
// few thousand entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a least-recently-used cache.  Zero value is invalid; use New.
type LRU[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	ll   *list.List
	dict map[K]*list.Element
	now  func() time.Time
}

type entry[K comparable, V any] struct {
	key K
	val V
	exp time.Time // zero means never
}

// New returns an LRU holding at most capacity entries, each valid for
// ttl (zero disables expiry).  Panics on capacity < 1.
func New[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ttl:  ttl,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
		now:  time.Now,
	}
}

// Get returns a live value and marks it MRU.  Expired entries are
// dropped on the way.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.dict[key]
	if !hit {
		return val, false
	}
	e := ele.Value.(entry[K, V])
	if !e.exp.IsZero() && !c.now().Before(e.exp) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return val, false
	}
	c.ll.MoveToFront(ele)
	return e.val, true
}

// Add inserts or updates a value and evicts the LRU entry when full.
func (c *LRU[K, V]) Add(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[K, V]{key: key, val: val}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	if ele, hit := c.dict[key]; hit {
		ele.Value = e
		c.ll.MoveToFront(ele)
		return
	}
	c.dict[key] = c.ll.PushFront(e)
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(entry[K, V]).key)
	}
}

// Len reports current size, including entries that expired but were not
// yet touched.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
