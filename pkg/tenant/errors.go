package tenant

import (
	"errors"
	"net/http"
)

var (
	// ErrTenantNotFound is returned when no non-deleted tenant matches the lookup.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantAlreadyExists is returned when the identifier is held by another non-deleted tenant.
	ErrTenantAlreadyExists = errors.New("tenant already exists")

	// ErrOperationFailed is returned when a persist step did not affect the expected
	// number of rows, or wraps an unexpected storage error.
	ErrOperationFailed = errors.New("tenant operation failed")

	// ErrInvalidIdentifier is returned when the identifier format is invalid.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned when no tenant is resolved for the request.
	ErrNoTenantInContext = errors.New("no tenant in context")
)

// Configuration errors. Build returns them joined with ErrInvalidConfiguration.
var (
	ErrInvalidConfiguration    = errors.New("invalid tenant configuration")
	ErrMissingDataContext      = errors.New("data context is not configured")
	ErrMissingUserIDProvider   = errors.New("current user id provider is not configured")
	ErrMissingTenantIDProvider = errors.New("current tenant id provider is not configured")
	ErrNotTenantAware          = errors.New("model does not implement tenant.Aware")
)

// isDomainError reports whether err already belongs to the tenant error taxonomy.
func isDomainError(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrTenantAlreadyExists) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrOperationFailed)
}

// operationFailed keeps domain errors as they are and wraps everything else
// with ErrOperationFailed, preserving the original cause for errors.Is/As.
func operationFailed(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return errors.Join(ErrOperationFailed, err)
}

// HTTPStatus maps tenant errors to the HTTP status a host would usually respond with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTenantAlreadyExists),
		errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrNoTenantInContext):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
