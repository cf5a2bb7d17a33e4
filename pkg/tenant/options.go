package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ErrorHandler handles errors that occur during tenant resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Lookup resolves a human-readable identifier to a tenant.
// *Service implements it.
type Lookup interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}

// config holds middleware configuration.
type config struct {
	fallback     Resolver
	lookup       Lookup
	cache        Cache
	cacheTTL     time.Duration
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithFallbackResolver replaces the default X-Tenant-Id header resolver used
// when the tenant id provider yields nothing.
func WithFallbackResolver(resolver Resolver) Option {
	return func(c *config) {
		if resolver != nil {
			c.fallback = resolver
		}
	}
}

// WithIdentifierLookup lets the fallback value be a tenant identifier instead of an id.
func WithIdentifierLookup(lookup Lookup) Option {
	return func(c *config) {
		c.lookup = lookup
	}
}

// WithCache sets the cache used for identifier lookups.
func WithCache(cache Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets how long an identifier lookup stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.cacheTTL = ttl
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets paths that should skip tenant resolution.
func WithSkipPaths(paths []string) Option {
	return func(c *config) {
		c.skipPaths = paths
	}
}

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEnv applies the environment driven settings.
func WithEnv(env EnvConfig) Option {
	return func(c *config) {
		c.fallback = NewHeaderResolver(env.Header)
		c.skipPaths = env.SkipPaths
		c.cacheTTL = env.CacheTTL
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	http.Error(w, http.StatusText(status), status)
}
