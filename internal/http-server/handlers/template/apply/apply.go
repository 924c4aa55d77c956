package apply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"shift-service/api"
	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type TemplateApplier interface {
	ApplyTemplate(ctx context.Context, templateID int64, req *api.TemplateApplyRequest) (int, error)
}

type Request struct {
	api.TemplateApplyRequest
}

type Response struct {
	response.Response
	ShiftsCreated int `json:"shifts_created"`
}

// New expands the template onto every matching weekday in the date
// range and reports how many shifts came out of it.
func New(log *slog.Logger, applier TemplateApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.apply.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid id"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		created, err := applier.ApplyTemplate(r.Context(), id, &req.TemplateApplyRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date range"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Template not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template not found"))
			return
		}

		if err != nil {
			log.Error("Failed to apply template", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to apply template"))
			return
		}

		log.Info("Template applied",
			slog.Int64("id", id),
			slog.Int("shifts_created", created),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{ShiftsCreated: created})
	}
}
