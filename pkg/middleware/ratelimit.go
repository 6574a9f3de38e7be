package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client tracks a rate limiter per remote address.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientStore manages per-address limiters and evicts entries not seen
// within the TTL.
type clientStore struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     int
	burst   int
	ttl     time.Duration
	nowFunc func() time.Time // injectable clock for testing
}

func newClientStore(rps, burst int, ttl time.Duration) *clientStore {
	s := &clientStore{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		nowFunc: time.Now,
	}
	go s.cleanupLoop()
	return s
}

func (s *clientStore) get(addr string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.clients[addr] = c
	}
	c.lastSeen = s.nowFunc()
	return c.limiter
}

func (s *clientStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

func (s *clientStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for addr, c := range s.clients {
		if now.Sub(c.lastSeen) > s.ttl {
			delete(s.clients, addr)
		}
	}
}

func (s *clientStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit enforces a per-client token bucket of rps requests per second
// with the given burst, answering 429 when the bucket is empty.
func RateLimit(rps, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	const cleanupInterval = 3 * time.Minute
	store := newClientStore(rps, burst, cleanupInterval)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r)
			if !store.get(addr).Allow() {
				logger.Warn("rate limit exceeded",
					slog.String("client", addr),
					slog.String("path", r.URL.Path),
				)
				writeRateLimitError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr extracts the client address, preferring proxy headers over
// RemoteAddr.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"code":    "RATE_LIMITED",
		"message": "too many requests",
	})
}
