package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/logger"
	"github.com/xdf2508/e-family/pkg/validator"
)

// Response is the uniform JSON envelope used across all endpoints.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Data    any               `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// debugMode controls whether unclassified errors expose their detail in the
// envelope. It is set once at startup from the environment and must never be
// enabled in production.
var debugMode atomic.Bool

// SetDebugMode toggles verbose error responses for non-production use.
func SetDebugMode(enabled bool) {
	debugMode.Store(enabled)
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope with optional message and data.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError writes a failure envelope based on the error type. Typed
// failures (AppError and the sentinel errors) map to their status and stable
// code; everything else is treated as an internal error, logged with full
// detail server-side, and surfaced as a generic failure. With debug mode on,
// unclassified errors carry their detail in the message for diagnosis.
// It prefers the request-scoped logger from context over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, Response{
			Success: false,
			Message: appErr.Message,
			Code:    appErr.Code,
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		code = "CONFLICT"
		message = "operation conflicts with current state"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = "UNAUTHORIZED"
		message = "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		code = "FORBIDDEN"
		message = "access denied"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		if debugMode.Load() {
			message = err.Error()
		}
	}

	WriteJSON(w, status, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// WriteValidationError writes a failure envelope for request validation
// errors, including field-level messages when available.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "request validation failed",
			Code:    "VALIDATION_ERROR",
			Fields:  valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: err.Error(),
		Code:    "INVALID_INPUT",
	})
}
