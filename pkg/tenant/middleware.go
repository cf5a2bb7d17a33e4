package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Middleware resolves the tenant of every request and installs a fresh Holder
// in the request context before calling the next handler.
//
// Resolution order: the configured tenant id provider first; if it yields
// uuid.Nil, the fallback resolver (X-Tenant-Id header by default). A fallback
// value that is not a UUID is resolved through the identifier lookup when one
// is configured, otherwise it is ignored. When nothing resolves, the holder
// keeps uuid.Nil and the request continues; scoped queries then match nothing.
//
// Errors returned by the providers are passed to the error handler and stop the request.
func Middleware(cfg *Configuration, opts ...Option) func(http.Handler) http.Handler {
	c := &config{
		fallback:     NewHeaderResolver(HeaderName),
		cache:        NewNoOpCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			holder := NewHolder()
			r = r.WithContext(WithHolder(r.Context(), holder))

			for _, skip := range c.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if cfg != nil && cfg.userIDProvider != nil {
				userID, err := cfg.userIDProvider(r)
				if err != nil {
					c.logger.ErrorContext(r.Context(), "tenant: user id provider failed", "error", err)
					c.errorHandler(w, r, err)
					return
				}
				holder.SetUserID(userID)
			}

			id, err := c.resolve(cfg, r)
			if err != nil {
				c.logger.ErrorContext(r.Context(), "tenant: tenant id provider failed", "error", err)
				c.errorHandler(w, r, err)
				return
			}
			if id != uuid.Nil {
				holder.SetTenantID(id)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolve only returns errors raised by the tenant id provider.
func (c *config) resolve(cfg *Configuration, r *http.Request) (uuid.UUID, error) {
	if cfg != nil && cfg.tenantIDProvider != nil {
		id, err := cfg.tenantIDProvider(r)
		if err != nil {
			return uuid.Nil, err
		}
		if id != uuid.Nil {
			return id, nil
		}
	}
	return c.resolveFallback(r), nil
}

// resolveFallback degrades every failure to uuid.Nil.
func (c *config) resolveFallback(r *http.Request) uuid.UUID {
	ctx := r.Context()

	value, err := c.fallback.Resolve(r)
	if err != nil {
		c.logger.WarnContext(ctx, "tenant: fallback resolver failed", "error", err)
		return uuid.Nil
	}
	if value == "" {
		return uuid.Nil
	}

	if id, err := uuid.Parse(value); err == nil {
		c.logger.DebugContext(ctx, "tenant: resolved from fallback", "tenant_id", id)
		return id
	}
	if c.lookup == nil {
		c.logger.DebugContext(ctx, "tenant: fallback value is not a tenant id", "value", value)
		return uuid.Nil
	}

	if cached, ok := c.cache.Get(ctx, value); ok {
		return cached.ID
	}

	t, err := c.lookup.GetByIdentifier(ctx, value)
	switch {
	case errors.Is(err, ErrTenantNotFound):
		c.logger.DebugContext(ctx, "tenant: unknown identifier", "identifier", value)
		return uuid.Nil
	case err != nil:
		c.logger.WarnContext(ctx, "tenant: identifier lookup failed", "identifier", value, "error", err)
		return uuid.Nil
	}

	if err := c.cache.Set(ctx, value, t, c.cacheTTL); err != nil {
		c.logger.WarnContext(ctx, "tenant: failed to cache tenant", "identifier", value, "error", err)
	}
	return t.ID
}

// RequireTenant creates middleware that rejects requests without a resolved tenant.
// Mount it after Middleware on routes that only make sense inside a tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IDFromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
