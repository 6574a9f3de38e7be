package http

import (
	"net/http"
	"strings"
)

// ContentTypeJSON rejects requests carrying a body whose Content-Type is
// not JSON. Bodiless requests pass through, so action endpoints like order
// cancellation work without a Content-Type header.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"success":false,"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
