package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorWrapsCause(t *testing.T) {
	cause := errors.New("open vehicles.csv: no such file")
	err := NotFound("listing file missing", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "NOT_FOUND: listing file missing: open vehicles.csv: no such file", err.Error())
	assert.NotEmpty(t, err.StackTrace())
}

func TestDomainErrorWithoutCause(t *testing.T) {
	err := InvalidInput("unknown view", nil)
	assert.Equal(t, "INVALID_INPUT: unknown view", err.Error())
	assert.NotEmpty(t, err.StackTrace())
}

func TestTypeOfThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", Unavailable("postgres down", nil))

	assert.Equal(t, ErrTypeUnavailable, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrTypeUnavailable))
	assert.False(t, Is(wrapped, ErrTypeNotFound))
	assert.Equal(t, ErrTypeInternal, TypeOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x", nil), http.StatusNotFound},
		{InvalidInput("x", nil), http.StatusBadRequest},
		{Unavailable("x", nil), http.StatusServiceUnavailable},
		{Internal("x", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
