package cache

import (
	"errors"
	"fmt"
	"time"
)

// LayeredCache reads through an ordered list of layers, fastest first.
// A hit in a slower layer is copied into every faster one.
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache stacks layers in lookup order; nil layers are skipped
func NewLayeredCache(layers ...Cache) *LayeredCache {
	c := &LayeredCache{}
	for _, l := range layers {
		if l != nil {
			c.layers = append(c.layers, l)
		}
	}
	return c
}

// Get returns the value from the first layer that has it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		// Faster layers apply their own default TTL
		for _, faster := range c.layers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set writes value to every layer. A failing layer does not stop the
// others; all failures are reported.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	return c.each(func(l Cache) error { return l.Set(key, value, ttl) })
}

// Delete removes a value from every layer
func (c *LayeredCache) Delete(key string) error {
	return c.each(func(l Cache) error { return l.Delete(key) })
}

// Clear empties every layer
func (c *LayeredCache) Clear() error {
	return c.each(Cache.Clear)
}

func (c *LayeredCache) each(fn func(Cache) error) error {
	var errs []error
	for i, layer := range c.layers {
		if err := fn(layer); err != nil {
			errs = append(errs, fmt.Errorf("layer %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
