package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type tenantInput struct {
	Identifier string `json:"identifier"`
}

type memberInput struct {
	UserID uuid.UUID `json:"user_id"`
}

type tenantHandlers struct {
	svc     *tenant.Service
	db      *gorm.DB
	onError tenant.ErrorHandler
}

// create falls back to a random identifier when the body leaves it empty.
func (h *tenantHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in tenantInput
	if err := decode(r, &in); err != nil {
		h.onError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Identifier) == "" {
		in.Identifier = h.svc.RandomIdentifier()
	}

	t, err := h.svc.Create(r.Context(), in.Identifier)
	if err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *tenantHandlers) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.List(r.Context())
	if err != nil {
		h.onError(w, r, err)
		return
	}
	if tenants == nil {
		tenants = []tenant.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// get accepts either the tenant id or its identifier.
func (h *tenantHandlers) get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var (
		t   *tenant.Tenant
		err error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		t, err = h.svc.Get(r.Context(), id)
	} else {
		t, err = h.svc.FindByIdentifier(r.Context(), ref)
	}
	if err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *tenantHandlers) randomIdentifier(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tenantInput{Identifier: h.svc.RandomIdentifier()})
}

func (h *tenantHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var in tenantInput
	if err := decode(r, &in); err != nil {
		h.onError(w, r, err)
		return
	}

	t, err := h.svc.Update(r.Context(), id, in.Identifier)
	if err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *tenantHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.Delete(r.Context(), id); err != nil {
		h.onError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addMember binds a user to the tenant, replacing any previous membership.
func (h *tenantHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var in memberInput
	if err := decode(r, &in); err != nil {
		h.onError(w, r, err)
		return
	}
	if in.UserID == uuid.Nil {
		h.onError(w, r, errors.Join(errBadRequest, errors.New("user_id is required")))
		return
	}
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		h.onError(w, r, err)
		return
	}

	m := Member{UserID: in.UserID, TenantID: id}
	err := h.db.WithContext(r.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id"}),
	}).Create(&m).Error
	if err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *tenantHandlers) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.onError(w, r, tenant.ErrTenantNotFound)
		return uuid.Nil, false
	}
	return id, true
}
