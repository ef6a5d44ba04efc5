package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: month is required", ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: session revoked", ErrUnauthenticated), http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: organization mismatch", ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("billing: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("billing is paid: %w", ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION"},
		{fmt.Errorf("room number already exists: %w", ErrConflict), http.StatusConflict, "CONFLICT"},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{ErrTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := StatusFromError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestStatusFromError_ValidationErrors(t *testing.T) {
	type req struct {
		Name string `json:"name" validate:"required"`
	}
	err := NewRequestValidator().Validate(&req{})
	status, code := StatusFromError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", code)
}
