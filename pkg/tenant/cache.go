package tenant

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

// Cache stores tenants resolved by identifier so the middleware does not hit
// storage on every request.
type Cache interface {
	// Get retrieves a tenant from cache by key.
	Get(ctx context.Context, key string) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) error

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, key string) error
}

// DefaultCacheSize is the default maximum number of items in the cache.
const DefaultCacheSize = 1000

// inMemoryCache is the default in-process cache implementation.
type inMemoryCache struct {
	items *cache.TTLCache[string, Tenant]
}

// NewInMemoryCache creates an LRU cache with per-entry expiry.
func NewInMemoryCache(size int) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &inMemoryCache{items: cache.New[string, Tenant](size)}
}

// Get returns a copy so callers cannot mutate the cached tenant.
func (c *inMemoryCache) Get(_ context.Context, key string) (*Tenant, bool) {
	t, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return &t, true
}

func (c *inMemoryCache) Set(_ context.Context, key string, tenant *Tenant, ttl time.Duration) error {
	if tenant == nil {
		return nil
	}
	c.items.Set(key, *tenant, ttl)
	return nil
}

func (c *inMemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// noOpCache is a cache that doesn't cache anything.
// Useful for testing or when caching should be disabled.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) (*Tenant, bool) { return nil, false }

func (noOpCache) Set(context.Context, string, *Tenant, time.Duration) error { return nil }

func (noOpCache) Delete(context.Context, string) error { return nil }
