package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("room", "42")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "room with id 42 not found")
}

func TestAppError_Unwrap(t *testing.T) {
	err := Conflict("room already favorited")
	assert.True(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("add favorite: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConflict))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestUpstream_KeepsProviderCode(t *testing.T) {
	err := Upstream("wechat", 40029, "invalid code")
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Equal(t, "UPSTREAM_ERROR", err.Code)
	assert.Contains(t, err.Message, "40029")
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestUpstreamTimeout(t *testing.T) {
	err := UpstreamTimeout("wechat")
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Equal(t, "UPSTREAM_TIMEOUT", err.Code)
	assert.True(t, errors.Is(err, ErrUpstreamTimeout))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Forbidden("not your order"), http.StatusForbidden},
		{"wrapped app error", fmt.Errorf("cancel: %w", NotFound("order", "x")), http.StatusNotFound},
		{"sentinel not found", ErrNotFound, http.StatusNotFound},
		{"sentinel conflict", ErrConflict, http.StatusConflict},
		{"sentinel invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"sentinel unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"sentinel upstream", ErrUpstream, http.StatusBadGateway},
		{"sentinel upstream timeout", ErrUpstreamTimeout, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
