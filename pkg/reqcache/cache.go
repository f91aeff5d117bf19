package reqcache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes keyed computations for the lifetime of one request.
// The zero value is not usable; call New.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	results map[string]result
}

type result struct {
	value any
	err   error
}

// New creates an empty request cache.
func New() *Cache {
	return &Cache{results: make(map[string]result)}
}

// Do returns the memoized result for key, computing it with fn exactly once.
// Concurrent callers with the same key share a single execution; later callers
// get the stored result without re-running fn. Errors are memoized too: a
// failed lookup is not retried within the same request.
//
// On a nil receiver fn is executed directly.
func (c *Cache) Do(key string, fn func() (any, error)) (any, error) {
	if c == nil {
		return fn()
	}

	c.mu.RLock()
	if res, ok := c.results[key]; ok {
		c.mu.RUnlock()
		return res.value, res.err
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		v, err := fn()
		c.mu.Lock()
		c.results[key] = result{value: v, err: err}
		c.mu.Unlock()
		return v, err
	})
	return v, err
}

// Memo is a typed convenience wrapper around Cache.Do.
func Memo[T any](c *Cache, key string, fn func() (T, error)) (T, error) {
	v, err := c.Do(key, func() (any, error) { return fn() })
	if v == nil {
		var zero T
		return zero, err
	}
	return v.(T), err
}
