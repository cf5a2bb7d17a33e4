package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Holder carries the tenant resolved for one request or unit of work.
// A Holder is owned by a single request and is not safe for concurrent mutation.
// The zero value is ready to use and holds uuid.Nil.
type Holder struct {
	tenantID uuid.UUID
	userID   uuid.UUID
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// TenantID returns the resolved tenant id, or uuid.Nil if nothing was resolved.
func (h *Holder) TenantID() uuid.UUID {
	if h == nil {
		return uuid.Nil
	}
	return h.tenantID
}

// SetTenantID overwrites the tenant id unconditionally.
func (h *Holder) SetTenantID(id uuid.UUID) {
	h.tenantID = id
}

// UserID returns the id reported by the current user id provider.
func (h *Holder) UserID() uuid.UUID {
	if h == nil {
		return uuid.Nil
	}
	return h.userID
}

// SetUserID overwrites the current user id.
func (h *Holder) SetUserID(id uuid.UUID) {
	h.userID = id
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithHolder attaches the holder to the context.
func WithHolder(ctx context.Context, h *Holder) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// WithTenantID returns a context carrying a new holder pre-set to id.
// Useful for background jobs and tests that run outside the HTTP middleware.
func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	h := NewHolder()
	h.SetTenantID(id)
	return WithHolder(ctx, h)
}

// HolderFromContext returns the holder attached to the context.
func HolderFromContext(ctx context.Context) (*Holder, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(contextKey{}).(*Holder)
	return h, ok && h != nil
}

// IDFromContext returns the current tenant id.
// Returns uuid.Nil and false if no holder is attached or no tenant was resolved.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	h, ok := HolderFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id := h.TenantID()
	return id, id != uuid.Nil
}

// MustIDFromContext returns the current tenant id.
// Panics if no tenant is resolved. Use this only in handlers
// mounted behind RequireTenant.
func MustIDFromContext(ctx context.Context) uuid.UUID {
	id, ok := IDFromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return id
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts tenant ID from context
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		h, ok := HolderFromContext(ctx)
		if !ok || h.TenantID() == uuid.Nil {
			return slog.Attr{}, false
		}
		attrs := []any{slog.String("id", h.TenantID().String())}
		if uid := h.UserID(); uid != uuid.Nil {
			attrs = append(attrs, slog.String("user_id", uid.String()))
		}
		return slog.Group("tenant", attrs...), true
	}
}
