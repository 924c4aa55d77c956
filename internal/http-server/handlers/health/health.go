package health

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/render"

	"shift-service/pkg/sl"
)

// Pinger is satisfied by the storage and the cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Report struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	// Warn when less than 10% of the disk is free.
	minDiskFreeRatio = 0.10
)

// NewLive always answers ok. It only proves the process is serving.
func NewLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// NewReady answers ok once the database accepts connections.
func NewReady(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.NewReady"

		if err := db.Ping(r.Context()); err != nil {
			log.Error("Readiness check failed", slog.String("op", op), sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "unavailable"})
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}

// New runs the full health report: database, cache, disk space and log
// directory writability. A database failure makes the whole report
// unhealthy; everything else only degrades it.
func New(log *slog.Logger, db, cache Pinger, logDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.New"

		checks := map[string]Check{
			"database": checkDB(r.Context(), db),
			"cache":    checkCache(r.Context(), cache),
			"disk":     checkDisk(),
			"logs":     checkLogDir(logDir),
		}

		status := statusHealthy
		for name, c := range checks {
			if c.Status == statusHealthy {
				continue
			}
			if name == "database" {
				status = statusUnhealthy
				break
			}
			status = statusDegraded
		}

		if status != statusHealthy {
			log.Warn("Health check not healthy",
				slog.String("op", op),
				slog.String("status", status),
			)
		}

		if status == statusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		render.JSON(w, r, Report{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}

func checkDB(ctx context.Context, db Pinger) Check {
	if err := db.Ping(ctx); err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error()}
	}
	return Check{Status: statusHealthy}
}

func checkCache(ctx context.Context, cache Pinger) Check {
	if cache == nil {
		return Check{Status: statusDegraded, Message: "cache not configured"}
	}
	if err := cache.Ping(ctx); err != nil {
		return Check{Status: statusDegraded, Message: err.Error()}
	}
	return Check{Status: statusHealthy}
}

func checkDisk() Check {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(".", &fs); err != nil {
		return Check{Status: statusDegraded, Message: err.Error()}
	}

	if fs.Blocks == 0 {
		return Check{Status: statusDegraded, Message: "cannot determine disk size"}
	}

	free := float64(fs.Bavail) / float64(fs.Blocks)
	if free < minDiskFreeRatio {
		return Check{Status: statusDegraded, Message: "low disk space"}
	}

	return Check{Status: statusHealthy}
}

func checkLogDir(dir string) Check {
	if dir == "" {
		return Check{Status: statusHealthy}
	}

	marker := filepath.Join(dir, ".health")
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return Check{Status: statusDegraded, Message: err.Error()}
	}
	_ = os.Remove(marker)

	return Check{Status: statusHealthy}
}
