// Package cache holds fetched content bodies for the lifetime of a coordinator.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the body for a path on a cache miss.
type LoadFunc func(ctx context.Context, path string) (string, error)

// Content maps content paths to raw bodies. Concurrent loads of one path share a
// single call to the loader, and only successful bodies are stored, so a path is
// fetched once per successful load and a failure can be retried.
type Content struct {
	mu     sync.RWMutex
	bodies map[string]string
	flight singleflight.Group
	loads  int64
}

func NewContent() *Content {
	return &Content{bodies: make(map[string]string)}
}

// Get returns the cached body for path.
func (c *Content) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.bodies[path]
	return body, ok
}

// Load returns the cached body for path, calling load on a miss. hit reports
// whether the body came from the cache without waiting on a loader.
func (c *Content) Load(ctx context.Context, path string, load LoadFunc) (body string, hit bool, err error) {
	if body, ok := c.Get(path); ok {
		return body, true, nil
	}

	v, err, _ := c.flight.Do(path, func() (any, error) {
		// A concurrent flight may have finished between Get and Do.
		if body, ok := c.Get(path); ok {
			return body, nil
		}
		body, err := load(ctx, path)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.bodies[path] = body
		c.loads++
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), false, nil
}

// Len is the number of cached bodies.
func (c *Content) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bodies)
}

// Loads counts successful loader calls since creation or the last Clear.
func (c *Content) Loads() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}

// Clear drops every body. Used on full reload only.
func (c *Content) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = make(map[string]string)
	c.loads = 0
}
