package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// userHeader stands in for a real authentication layer.
const userHeader = "X-User-Id"

var errInvalidUserID = errors.New("invalid user id")

// Member binds a user to the single tenant they work in.
type Member struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}

func userIDFromHeader(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(userHeader))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", errInvalidUserID, err)
	}
	return id, nil
}

// memberTenantID resolves the tenant of the user the middleware already
// stored in the holder. Users without membership fall back to the header.
func memberTenantID(db *gorm.DB) tenant.IDProvider {
	return func(r *http.Request) (uuid.UUID, error) {
		h, ok := tenant.HolderFromContext(r.Context())
		if !ok || h.UserID() == uuid.Nil {
			return uuid.Nil, nil
		}

		var m Member
		err := db.WithContext(r.Context()).Where("user_id = ?", h.UserID()).Take(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return uuid.Nil, nil
		case err != nil:
			return uuid.Nil, err
		}
		return m.TenantID, nil
	}
}
