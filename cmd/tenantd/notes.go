package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

var errNoteNotFound = errors.New("note not found")

// Note is the tenant-aware record served by the demo. Every query on it is
// filtered to the request tenant by the isolation plugin.
type Note struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	tenant.Owned
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tenant *tenant.Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate assigns the primary key.
func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type noteInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type noteHandlers struct {
	db      *gorm.DB
	onError tenant.ErrorHandler
}

func (h *noteHandlers) list(w http.ResponseWriter, r *http.Request) {
	notes := []Note{}
	if err := h.db.WithContext(r.Context()).Order("created_at").Find(&notes).Error; err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *noteHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in noteInput
	if err := decode(r, &in); err != nil {
		h.onError(w, r, err)
		return
	}
	if in.Title == "" {
		h.onError(w, r, errors.Join(errBadRequest, errors.New("title is required")))
		return
	}

	note := Note{Title: in.Title, Body: in.Body}
	if err := h.db.WithContext(r.Context()).Create(&note).Error; err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *noteHandlers) get(w http.ResponseWriter, r *http.Request) {
	note, err := h.find(r)
	if err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *noteHandlers) update(w http.ResponseWriter, r *http.Request) {
	note, err := h.find(r)
	if err != nil {
		h.onError(w, r, err)
		return
	}
	var in noteInput
	if err := decode(r, &in); err != nil {
		h.onError(w, r, err)
		return
	}
	if in.Title != "" {
		note.Title = in.Title
	}
	note.Body = in.Body

	if err := h.db.WithContext(r.Context()).Save(note).Error; err != nil {
		h.onError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *noteHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.onError(w, r, errNoteNotFound)
		return
	}
	res := h.db.WithContext(r.Context()).Delete(&Note{}, "id = ?", id)
	if res.Error != nil {
		h.onError(w, r, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.onError(w, r, errNoteNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// find returns ErrRecordNotFound for notes of other tenants as well.
func (h *noteHandlers) find(r *http.Request) (*Note, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, errNoteNotFound
	}
	var note Note
	err = h.db.WithContext(r.Context()).Where("id = ?", id).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}
