package detail

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

type DetailManager interface {
	AddTemplateDetail(ctx context.Context, templateID int64, req *api.TemplateDetailRequest) (*api.TemplateResponse, error)
	DeleteTemplateDetail(ctx context.Context, id int64) error
}

type Request struct {
	api.TemplateDetailRequest
}

type Response struct {
	response.Response
	Template api.TemplateResponse `json:"template,omitempty"`
}

type DeleteResponse struct {
	response.Response
	Deleted bool `json:"deleted"`
}

// NewAdd attaches a (staff, weekday) row to the template. One row per
// staff member per weekday; a second one is rejected as a conflict.
func NewAdd(log *slog.Logger, mgr DetailManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.detail.NewAdd"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		templateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
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

		tmpl, err := mgr.AddTemplateDetail(r.Context(), templateID, &req.TemplateDetailRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid detail data"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("Detail already exists",
				slog.Int64("template_id", templateID),
				slog.Int64("staff_id", req.StaffID),
				slog.Int("weekday", req.Weekday),
			)
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "staff already assigned on this weekday"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Referenced record not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template, staff or shift type not found"))
			return
		}

		if err != nil {
			log.Error("Failed to add template detail", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to add template detail"))
			return
		}

		log.Info("Template detail added", slog.Int64("template_id", templateID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Template: *tmpl,
		})
	}
}

func NewDelete(log *slog.Logger, mgr DetailManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.detail.NewDelete"

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

		err = mgr.DeleteTemplateDetail(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Template detail not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template detail not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete template detail", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete template detail"))
			return
		}

		log.Info("Template detail deleted", slog.Int64("id", id))

		render.JSON(w, r, DeleteResponse{Deleted: true})
	}
}
