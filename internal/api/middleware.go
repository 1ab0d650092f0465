package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// RateCounter is the counter service backing request rate limiting.
// Implemented by *throttle.Limiter.
type RateCounter interface {
	Allow(ctx context.Context, identifier string, limit int, window time.Duration) (allowed bool, remaining int, err error)
}

// RequireCronSecret rejects requests whose X-Cron-Secret header doesn't
// match the configured shared secret. An empty configured secret disables
// the check (local development).
func RequireCronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get("X-Cron-Secret")
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit caps requests per identifier inside the window. With a nil
// counter the middleware is a no-op.
func RateLimit(counter RateCounter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if counter == nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, _, err := counter.Allow(r.Context(), r.RemoteAddr, limit, window)
			if err != nil {
				// A broken limiter must not take the cron path down.
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
