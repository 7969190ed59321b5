package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/flow"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"expired session", client.Unauthenticated(), http.StatusUnauthorized, "unauthenticated"},
		{"missing record", fmt.Errorf("a -> %w", client.NotFound("Event", "e1")), http.StatusNotFound, "not_found"},
		{"field error", client.FieldError("email", "is taken"), http.StatusUnprocessableEntity, "validation_failed"},
		{"double submit", flow.ErrSubmitInProgress, http.StatusConflict, "conflict"},
		{"stale confirmation", flow.ErrConfirmationNotFound, http.StatusNotFound, "not_found"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, e.HTTPStatusCode)
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestFromErrorKeepsBackendMessage(t *testing.T) {
	e := FromError(fmt.Errorf("v1.HandleCreateUser -> %w", client.FieldError("username", "Username already exists")))

	assert.Equal(t, map[string]string{"username": "Username already exists"}, e.Fields)
	assert.Equal(t, "Username already exists", e.Message)
}

func TestInternalErrorsHideDetails(t *testing.T) {
	e := ErrInternalServerError(errors.New("nil pointer"))

	assert.NotContains(t, e.Message, "nil pointer")
}
