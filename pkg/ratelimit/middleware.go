package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

// Allower is the limiter contract the middleware needs. Satisfied by
// *Limiter; tests substitute stubs.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc derives the rate-limit key from a request.
type KeyFunc func(r *http.Request) string

// ClientIPKey keys requests by client IP.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware limits requests through the wrapped handler. A limiter error
// lets the request through; exceeding the limit returns 429.
func Middleware(limiter Allower, keyFn KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = ClientIPKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				if log != nil {
					log.ErrorContext(r.Context(), "rate limiter unavailable", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
