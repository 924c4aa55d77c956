package maintenance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

// FlagFunc reports whether maintenance mode is on. The flag lives in the
// shared cache so operators can flip it without a deploy.
type FlagFunc func(ctx context.Context) (bool, error)

// New gates every request behind the maintenance flag, read once per
// request. Health probes stay reachable so orchestrators keep accurate
// state during maintenance.
func New(log *slog.Logger, flag FlagFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health", "/ready", "/live":
				next.ServeHTTP(w, r)
				return
			}

			on, err := flag(r.Context())
			if err != nil {
				// Fail open: an unreachable cache should not lock everyone out.
				log.Error("maintenance flag check failed", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if on {
				w.WriteHeader(http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error(string(response.MAINTENANCE), "service is under maintenance"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
