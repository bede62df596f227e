// Package iconcache implements the two-tier, TTL-aware icon cache store.
package iconcache

import (
	"container/list"
	"sync"
)

// LRU is a thread-safe LRU (Least Recently Used) map with a fixed capacity.
// Each cache tier is one LRU; the capacity bounds memory when an inventory
// contains many thousands of programs.
type LRU[K comparable, V any] struct {
	capacity int
	mu       sync.RWMutex
	items    map[K]*list.Element
	order    *list.List // Front = most recent, Back = least recent
	onEvict  func(K, V)
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates an LRU with the given capacity.
// Capacity must be positive; if zero or negative, a capacity of 1 is used.
// onEvict, if not nil, is called (under the lock) for capacity evictions only.
func NewLRU[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Get retrieves a value by key and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Peek retrieves a value without touching recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set adds or updates a value and marks it as recently used, evicting the
// least recently used entry when at capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry[K, V]).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			e := oldest.Value.(*lruEntry[K, V])
			c.order.Remove(oldest)
			delete(c.items, e.key)
			if c.onEvict != nil {
				c.onEvict(e.key, e.value)
			}
		}
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
}

// Remove deletes a key. Missing keys are a no-op.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// RemoveIf deletes every entry for which pred returns true and returns how
// many were removed.
func (c *LRU[K, V]) RemoveIf(pred func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*lruEntry[K, V])
		if pred(e.key, e.value) {
			c.order.Remove(elem)
			delete(c.items, e.key)
			removed++
		}
		elem = next
	}
	return removed
}

// Range calls fn for each entry from most to least recently used until fn
// returns false. fn must not call back into the LRU.
func (c *LRU[K, V]) Range(fn func(K, V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*lruEntry[K, V])
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Len returns the number of items currently stored.
func (c *LRU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Clear removes all items.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
}
