package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"shift-service/api"
	"shift-service/internal/service"
	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type Exporter interface {
	Export(ctx context.Context, req *api.ExportRequest) (*service.ExportResult, error)
}

type Request struct {
	api.ExportRequest
}

// New streams the schedule for a date range as a CSV or PDF file.
func New(log *slog.Logger, exporter Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.export.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		result, err := exporter.Export(r.Context(), &req.ExportRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid export request"))
			return
		}

		if err != nil {
			log.Error("Failed to export schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to export schedule"))
			return
		}

		log.Info("Schedule exported",
			slog.String("format", req.Format),
			slog.String("filename", result.Filename),
			slog.Int("size", len(result.Data)),
		)

		w.Header().Set("Content-Type", result.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(result.Data); err != nil {
			log.Error("Failed to write export body", sl.Err(err))
		}
	}
}
