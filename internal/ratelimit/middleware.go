package ratelimit

import (
	"net"
	"net/http"

	"github.com/ferro-labs/avatars-external/internal/metrics"
)

// KeyFunc extracts the rate-limit key from a request.
type KeyFunc func(r *http.Request) string

// ClientIP keys requests by the host part of RemoteAddr. Put chi's RealIP
// middleware in front of it to honour X-Forwarded-For.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests with 429 Too Many Requests once the bucket for
// their key is empty.
func Middleware(store *Store, key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed := store.Allow(key(r))
			metrics.RateLimitClients.Set(float64(store.Len()))
			if !allowed {
				metrics.RateLimitRejections.Inc()
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
