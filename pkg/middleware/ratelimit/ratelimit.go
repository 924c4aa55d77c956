package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

// CounterFunc bumps a fixed-window counter and returns its current value.
type CounterFunc func(ctx context.Context, key string, window time.Duration) (int64, error)

// New limits each client address to limit requests per window. Health
// probes are exempt; this protects the service from abusive traffic, it is
// not a data-model correctness mechanism.
func New(log *slog.Logger, counter CounterFunc, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)

			n, err := counter(r.Context(), "rate_limit:"+ip, window)
			if err != nil {
				// Fail open: a cache outage must not take requests down.
				log.Error("rate limit counter failed", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if n > int64(limit) {
				log.Warn("rate limit exceeded", slog.String("ip", ip))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(string(response.RATE_LIMITED), "too many requests, retry later"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func exempt(path string) bool {
	switch path {
	case "/health", "/ready", "/live":
		return true
	}

	return false
}

// clientIP prefers the first hop of X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	return host
}
