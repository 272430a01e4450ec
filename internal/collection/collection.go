// Package collection provides the in-memory cache behind each dashboard
// resource list. Consistency comes from full-snapshot replacement rather
// than incremental merges; mutations are applied only once the server has
// confirmed them.
package collection

import "sync"

// Collection caches one resource list. A generation counter supports
// last-selection-wins: callers capture the generation before a fetch and
// publish the result only if no newer selection superseded it.
type Collection[T any] struct {
	mu    sync.Mutex
	items []T
	gen   uint64
}

// New returns an empty collection.
func New[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Replace swaps the whole cached snapshot. It supersedes any fetch still
// in flight against an older generation.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = append([]T(nil), items...)
}

// Generation returns the current generation for a guarded fetch.
func (c *Collection[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Invalidate bumps the generation without touching items, marking every
// outstanding fetch stale. Returns the new generation.
func (c *Collection[T]) Invalidate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// ReplaceIf publishes a fetched snapshot only when gen is still current.
// A stale completion is discarded and reported false.
func (c *Collection[T]) ReplaceIf(gen uint64, items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.items = append([]T(nil), items...)
	return true
}

// Append adds a server-confirmed item to the tail.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Remove deletes the first item matching the predicate, preserving order.
// Reports whether an item was removed.
func (c *Collection[T]) Remove(match func(T) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if match(item) {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Update patches the first matching item in place on server confirmation.
func (c *Collection[T]) Update(match func(T) bool, patch func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			patch(&c.items[i])
			return true
		}
	}
	return false
}

// UpdateAll patches every matching item, returning the match count.
func (c *Collection[T]) UpdateAll(match func(T) bool, patch func(*T)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for i := range c.items {
		if match(c.items[i]) {
			patch(&c.items[i])
			count++
		}
	}
	return count
}

// Items returns a copy of the cached snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Find returns the first item matching the predicate.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the cached item count.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
