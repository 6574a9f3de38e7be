package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	openIDKey contextKeyType = "open_id"
)

// Claims represents the session claims extracted by the auth middleware.
type Claims struct {
	UserID string `json:"user_id"`
	OpenID string `json:"open_id"`
}

// TokenValidator is a function that validates a session token and returns claims.
// This allows the server to inject its own validation logic, including any
// account lookups it needs.
type TokenValidator func(ctx context.Context, token string) (*Claims, error)

// Auth middleware validates session tokens and injects user claims into context.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "invalid authorization header format")
				return
			}

			claims, err := validate(r.Context(), parts[1])
			if err != nil {
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, openIDKey, claims.OpenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// OpenIDFromContext extracts the authenticated user's openid from the request context.
func OpenIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(openIDKey).(string); ok {
		return id
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
