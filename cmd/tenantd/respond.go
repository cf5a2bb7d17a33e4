package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

var errBadRequest = errors.New("malformed request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errInvalidUserID):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errNoteNotFound):
		return http.StatusNotFound
	default:
		return tenant.HTTPStatus(err)
	}
}

// errorWriter renders errors as JSON and logs server-side failures.
func errorWriter(log *slog.Logger) tenant.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
			writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
			return
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
