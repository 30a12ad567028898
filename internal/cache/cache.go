// Package cache holds loaded values shared by concurrent jobs.
// Each key is loaded once even when requested by many goroutines,
// and entries are pruned when too many are stored or they become stale.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/resizetizer/resizetizer/types"
)

type Cache[k comparable, v any] struct {
	mu       sync.Mutex
	maxAge   time.Duration
	maxCount int
	entries  map[k]*entry[v]
	pruneFn  func(k, v)
}

type entry[v any] struct {
	used  time.Time
	ready chan struct{}
	value v
	err   error
}

type conf[k comparable, v any] struct {
	maxAge   time.Duration
	maxCount int
	pruneFn  func(k, v)
}

type Opts[k comparable, v any] func(*conf[k, v])

// WithAge drops entries not used within the age.
func WithAge[k comparable, v any](age time.Duration) Opts[k, v] {
	return func(c *conf[k, v]) {
		c.maxAge = age
	}
}

// WithCount limits the number of loaded entries, dropping the least recently used.
func WithCount[k comparable, v any](count int) Opts[k, v] {
	return func(c *conf[k, v]) {
		c.maxCount = count
	}
}

// WithPrune is called for each loaded entry removed from the cache.
func WithPrune[k comparable, v any](fn func(k, v)) Opts[k, v] {
	return func(c *conf[k, v]) {
		c.pruneFn = fn
	}
}

// New returns a new cache.
func New[k comparable, v any](opts ...Opts[k, v]) *Cache[k, v] {
	c := conf[k, v]{}
	for _, opt := range opts {
		opt(&c)
	}
	return &Cache[k, v]{
		maxAge:   c.maxAge,
		maxCount: c.maxCount,
		pruneFn:  c.pruneFn,
		entries:  map[k]*entry[v]{},
	}
}

// Get retrieves a loaded entry from the cache.
func (c *Cache[k, v]) Get(key k) (v, error) {
	var val v
	if c == nil {
		return val, types.ErrNotFound
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || !e.loaded() || c.expired(e, time.Now()) {
		c.mu.Unlock()
		return val, types.ErrNotFound
	}
	e.used = time.Now()
	c.mu.Unlock()
	return e.value, e.err
}

// Load returns the entry for key, calling fn to create it when missing.
// Concurrent callers for the same key wait for a single call to fn.
// Errors are returned to every waiting caller but are not cached.
func (c *Cache[k, v]) Load(key k, fn func() (v, error)) (v, error) {
	if c == nil {
		return fn()
	}
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !(e.loaded() && c.expired(e, time.Now())) {
		e.used = time.Now()
		c.mu.Unlock()
		<-e.ready
		return e.value, e.err
	}
	e := &entry[v]{
		used:  time.Now(),
		ready: make(chan struct{}),
	}
	c.entries[key] = e
	c.mu.Unlock()

	e.value, e.err = fn()
	c.mu.Lock()
	close(e.ready)
	if e.err != nil {
		if c.entries[key] == e {
			delete(c.entries, key)
		}
	} else {
		c.pruneLocked()
	}
	c.mu.Unlock()
	return e.value, e.err
}

// Delete removes an entry from the cache.
func (c *Cache[k, v]) Delete(key k) {
	if c == nil {
		return
	}
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok && e.loaded() && e.err == nil && c.pruneFn != nil {
		c.pruneFn(key, e.value)
	}
}

// DeleteAll removes all entries in the cache.
func (c *Cache[k, v]) DeleteAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	keys := make([]k, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.Unlock()
	for _, key := range keys {
		c.Delete(key)
	}
}

// Len returns the number of entries, including those still loading.
func (c *Cache[k, v]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (e *entry[v]) loaded() bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}

func (c *Cache[k, v]) expired(e *entry[v], now time.Time) bool {
	return c.maxAge > 0 && e.used.Add(c.maxAge).Before(now)
}

// pruneLocked removes stale entries and the least recently used entries over the count limit.
// Entries still loading are never pruned.
func (c *Cache[k, v]) pruneLocked() {
	now := time.Now()
	keyList := make([]k, 0, len(c.entries))
	for key, e := range c.entries {
		if e.loaded() {
			keyList = append(keyList, key)
		}
	}
	sort.Slice(keyList, func(i, j int) bool {
		return c.entries[keyList[i]].used.Before(c.entries[keyList[j]].used)
	})
	delCount := 0
	if c.maxCount > 0 {
		delCount = len(c.entries) - c.maxCount
	}
	for i, key := range keyList {
		e := c.entries[key]
		if i >= delCount && !c.expired(e, now) {
			break
		}
		if c.pruneFn != nil {
			c.pruneFn(key, e.value)
		}
		delete(c.entries, key)
	}
}
