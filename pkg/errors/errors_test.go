package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	appErr := Internal(cause)

	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.ErrorIs(t, appErr, cause)
}

func TestNotFound(t *testing.T) {
	err := NotFound("policy", "42")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "policy with id 42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConflict(t *testing.T) {
	err := Conflict("review write lost a concurrent race")

	assert.Equal(t, http.StatusConflict, err.Status)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestQuotaExceeded(t *testing.T) {
	err := QuotaExceeded("daily recommendation quota exhausted")

	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Unavailable("catalog unreachable"), http.StatusServiceUnavailable},
		{"wrapped not found", fmt.Errorf("get policy: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("submit: %w", ErrInvalidInput), http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("commit: %w", ErrConflict), http.StatusConflict},
		{"wrapped unauthorized", fmt.Errorf("auth: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"wrapped quota", fmt.Errorf("recommend: %w", ErrQuotaExceeded), http.StatusTooManyRequests},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
