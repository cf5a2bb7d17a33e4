package tenant_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{tenant.ErrTenantNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", tenant.ErrTenantNotFound), http.StatusNotFound},
		{tenant.ErrTenantAlreadyExists, http.StatusBadRequest},
		{tenant.ErrInvalidIdentifier, http.StatusBadRequest},
		{tenant.ErrNoTenantInContext, http.StatusBadRequest},
		{tenant.ErrOperationFailed, http.StatusInternalServerError},
		{errors.Join(tenant.ErrOperationFailed, errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tenant.HTTPStatus(tt.err), "%v", tt.err)
	}
}
