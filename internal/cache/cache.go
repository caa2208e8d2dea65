// Package cache provides a small in-process cache used for read-mostly
// reference data such as the stored guardrail setting map.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// ExpiryDefaultInMemory is the default TTL for cached entries
	ExpiryDefaultInMemory = 30 * time.Minute

	cleanupInterval = 10 * time.Minute
)

// Cache is the caching interface consumed by services
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiry time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
}

type inMemoryCache struct {
	store *gocache.Cache
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() Cache {
	return &inMemoryCache{
		store: gocache.New(ExpiryDefaultInMemory, cleanupInterval),
	}
}

func (c *inMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *inMemoryCache) Set(_ context.Context, key string, value interface{}, expiry time.Duration) {
	if expiry <= 0 {
		expiry = ExpiryDefaultInMemory
	}
	c.store.Set(key, value, expiry)
}

func (c *inMemoryCache) Delete(_ context.Context, key string) {
	c.store.Delete(key)
}

func (c *inMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for key := range c.store.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.store.Delete(key)
		}
	}
}
