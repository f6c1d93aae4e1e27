// Package cache keeps compiled tinyjs units keyed by their source text.
//
// Compilation is a pure function of the source and the compiler settings,
// so a unit compiled once can answer every later request for the same key.
// Compilers that share a cache prefix their keys with a fingerprint of
// their settings. Watch mode and the WASM host
// recompile unchanged inputs all the time; the cache turns those into
// lookups.
//
// # Example
//
//	c := cache.New(1024)
//	unit, err := c.GetOrCompile(source, func() (*types.Unit, error) {
//	    return compile(source)
//	})
package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/sandrolain/tinyjs/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// ErrCompilePanicked is returned to callers waiting on a compilation that
// panicked or exited its goroutine instead of returning.
var ErrCompilePanicked = errors.New("cache: compilation did not return")

// Stats reports cache activity since creation or the last Clear.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type slot struct {
	source string
	unit   *types.Unit
}

// call is a compilation in progress. Waiters block on done.
type call struct {
	done chan struct{}
	unit *types.Unit
	err  error
}

// Cache is an LRU cache of compiled units. When full, the unit used least
// recently is dropped. Concurrent GetOrCompile calls for the same source
// share one compilation.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	slots    map[string]*list.Element
	inflight map[string]*call
	stats    Stats
}

// New creates a cache holding at most capacity units.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		slots:    make(map[string]*list.Element, capacity),
		inflight: make(map[string]*call),
	}
}

// Get returns the unit compiled from source and marks it as recently used.
func (c *Cache) Get(source string) (*types.Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(source)
}

// Set stores unit under source, replacing any previous unit.
func (c *Cache) Set(source string, unit *types.Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeLocked(source, unit)
}

// GetOrCompile returns the cached unit for source or runs compile to
// produce it. Failed compilations are not cached, but callers that were
// waiting on one receive its error. A panic in compile is re-raised in the
// calling goroutine after waiters are released with ErrCompilePanicked.
func (c *Cache) GetOrCompile(source string, compile func() (*types.Unit, error)) (*types.Unit, error) {
	c.mu.Lock()
	if unit, ok := c.lookupLocked(source); ok {
		c.mu.Unlock()
		return unit, nil
	}
	if pending, ok := c.inflight[source]; ok {
		c.mu.Unlock()
		<-pending.done
		return pending.unit, pending.err
	}
	current := &call{done: make(chan struct{})}
	c.inflight[source] = current
	c.mu.Unlock()

	returned := false
	defer func() {
		if returned {
			c.finish(source, current)
			return
		}
		r := recover()
		current.unit = nil
		current.err = ErrCompilePanicked
		if r != nil {
			current.err = fmt.Errorf("%w: %v", ErrCompilePanicked, r)
		}
		c.finish(source, current)
		if r != nil {
			panic(r)
		}
	}()

	current.unit, current.err = compile()
	returned = true
	return current.unit, current.err
}

// finish publishes the result of a compilation and releases its waiters.
func (c *Cache) finish(source string, done *call) {
	c.mu.Lock()
	delete(c.inflight, source)
	if done.err == nil {
		c.storeLocked(source, done.unit)
	}
	c.mu.Unlock()
	close(done.done)
}

// Len returns the number of cached units.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the maximum number of cached units.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns a snapshot of the hit, miss and eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate drops the unit compiled from source, if any.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.slots[source]; ok {
		c.order.Remove(el)
		delete(c.slots, source)
	}
}

// Clear drops every unit and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.slots)
	c.stats = Stats{}
}

func (c *Cache) lookupLocked(source string) (*types.Unit, bool) {
	el, ok := c.slots[source]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.order.MoveToFront(el)
	return el.Value.(*slot).unit, true
}

func (c *Cache) storeLocked(source string, unit *types.Unit) {
	if el, ok := c.slots[source]; ok {
		el.Value.(*slot).unit = unit
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.slots, oldest.Value.(*slot).source)
		c.stats.Evictions++
	}
	c.slots[source] = c.order.PushFront(&slot{source: source, unit: unit})
}
