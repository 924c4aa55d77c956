package main

import (
	"shift-service/internal/cache"
	"shift-service/internal/config"
	"shift-service/internal/http-server/handlers/apishift"
	"shift-service/internal/http-server/handlers/approval"
	calendarGet "shift-service/internal/http-server/handlers/calendar/get"
	chartGet "shift-service/internal/http-server/handlers/chart/get"
	"shift-service/internal/http-server/handlers/export"
	"shift-service/internal/http-server/handlers/health"
	shiftBulk "shift-service/internal/http-server/handlers/shift/bulk"
	shiftCreate "shift-service/internal/http-server/handlers/shift/create"
	shiftDelete "shift-service/internal/http-server/handlers/shift/delete"
	shiftGet "shift-service/internal/http-server/handlers/shift/get"
	shiftReason "shift-service/internal/http-server/handlers/shift/reason"
	shiftUpdate "shift-service/internal/http-server/handlers/shift/update"
	typeCreate "shift-service/internal/http-server/handlers/shifttype/create"
	typeDelete "shift-service/internal/http-server/handlers/shifttype/delete"
	typeGet "shift-service/internal/http-server/handlers/shifttype/get"
	typeUpdate "shift-service/internal/http-server/handlers/shifttype/update"
	staffApproval "shift-service/internal/http-server/handlers/staff/approval"
	staffCreate "shift-service/internal/http-server/handlers/staff/create"
	staffDelete "shift-service/internal/http-server/handlers/staff/delete"
	staffGet "shift-service/internal/http-server/handlers/staff/get"
	staffUpdate "shift-service/internal/http-server/handlers/staff/update"
	tmplApply "shift-service/internal/http-server/handlers/template/apply"
	tmplCreate "shift-service/internal/http-server/handlers/template/create"
	tmplDelete "shift-service/internal/http-server/handlers/template/delete"
	tmplDetail "shift-service/internal/http-server/handlers/template/detail"
	tmplGet "shift-service/internal/http-server/handlers/template/get"
	tmplUpdate "shift-service/internal/http-server/handlers/template/update"
	svc "shift-service/internal/service"
	"shift-service/internal/storage/postgres"
	slogpretty "shift-service/pkg/handlers/slogpretty"
	"shift-service/pkg/middleware/maintenance"
	"shift-service/pkg/middleware/mwlogger"
	"shift-service/pkg/middleware/ratelimit"
	"shift-service/pkg/middleware/secheaders"
	"shift-service/pkg/sl"

	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err := storage.Migrate(context.Background(), "migrations"); err != nil {
		log.Error("Failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis cache", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, redisCache, svc.Config{
		ShiftTTL:       cfg.Cache.ShiftTTL,
		StaffTTL:       cfg.Cache.StaffTTL,
		ExportTitle:    cfg.Export.Title,
		ExportFontPath: cfg.Export.FontPath,
	})

	maintenanceFlag := func(ctx context.Context) (bool, error) {
		v, ok, err := redisCache.Get(ctx, cache.MaintenanceKey)
		if err != nil {
			return false, err
		}
		return ok && v == "1", nil
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)
	router.Use(secheaders.New)
	router.Use(ratelimit.New(log, redisCache.Incr, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	router.Use(maintenance.New(log, maintenanceFlag))

	// Views
	router.Get("/", calendarGet.New(log, service))
	router.Get("/chart", chartGet.New(log, service))

	// Staff
	router.Post("/staff/create", staffCreate.New(log, service))
	router.Get("/staff", staffGet.New(log, service))
	router.Get("/staff/{id}", staffGet.New(log, service))
	router.Post("/staff/{id}/update", staffUpdate.New(log, service))
	router.Post("/staff/{id}/delete", staffDelete.New(log, service))
	router.Post("/staff/{id}/approve", staffApproval.NewApprove(log, service))
	router.Post("/staff/{id}/reject", staffApproval.NewReject(log, service))

	// Shifts
	router.Post("/shift/create", shiftCreate.New(log, service))
	router.Post("/shift/submit", shiftCreate.NewStaff(log, service))
	router.Get("/shift/{id}", shiftGet.New(log, service))
	router.Post("/shift/{id}/update", shiftUpdate.New(log, service))
	router.Post("/shift/{id}/delete", shiftDelete.New(log, service))
	router.Post("/shift/bulk-create", shiftBulk.New(log, service))
	router.Post("/shift/reason/create", shiftReason.New(log, service))

	// Shift types
	router.Post("/shift-type/create", typeCreate.New(log, service))
	router.Get("/shift-type", typeGet.New(log, service))
	router.Get("/shift-type/{id}", typeGet.New(log, service))
	router.Post("/shift-type/{id}/update", typeUpdate.New(log, service))
	router.Post("/shift-type/{id}/delete", typeDelete.New(log, service))

	// Templates
	router.Post("/template/create", tmplCreate.New(log, service))
	router.Get("/template", tmplGet.New(log, service))
	router.Get("/template/{id}", tmplGet.New(log, service))
	router.Post("/template/{id}/update", tmplUpdate.New(log, service))
	router.Post("/template/{id}/delete", tmplDelete.New(log, service))
	router.Post("/template/{id}/apply", tmplApply.New(log, service))
	router.Post("/template/{id}/detail", tmplDetail.NewAdd(log, service))
	router.Post("/template/detail/{id}/delete", tmplDetail.NewDelete(log, service))

	// Export
	router.Post("/export", export.New(log, service))

	// Calendar widget API
	router.Get("/api/shifts", apishift.NewEvents(log, service))
	router.Post("/api/shift-update", apishift.NewUpdate(log, service))
	router.Post("/api/shift-delete", apishift.NewDelete(log, service))

	// Approval workflow
	router.Get("/api/pending-shifts", approval.NewPending(log, service))
	router.Post("/api/approve-shift", approval.NewApprove(log, service))
	router.Post("/api/reject-shift", approval.NewReject(log, service))
	router.Post("/api/bulk-approve-shifts", approval.NewBulk(log, service))

	// Health
	router.Get("/live", health.NewLive())
	router.Get("/ready", health.NewReady(log, storage))
	router.Get("/health", health.New(log, storage, redisCache, cfg.LogDir))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	} else {
		log.Debug("Storage is nil, nothing to close")
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Error("Failed to close redis cache", sl.Err(err))
		} else {
			log.Info("Redis cache closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
