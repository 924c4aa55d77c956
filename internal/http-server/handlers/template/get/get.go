package get

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

type TemplateGetter interface {
	GetTemplate(ctx context.Context, id int64) (*api.TemplateResponse, error)
	ListTemplates(ctx context.Context) ([]api.TemplateResponse, error)
}

type Response struct {
	response.Response
	Templates []api.TemplateResponse `json:"templates"`
}

// New serves the full listing and a single template, details included,
// when {id} is set.
func New(log *slog.Logger, getter TemplateGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if raw := chi.URLParam(r, "id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				log.Error("Invalid id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid id"))
				return
			}

			tmpl, err := getter.GetTemplate(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("Template not found", slog.Int64("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get template", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get template"))
				return
			}

			render.JSON(w, r, Response{Templates: []api.TemplateResponse{*tmpl}})
			return
		}

		list, err := getter.ListTemplates(r.Context())
		if err != nil {
			log.Error("Failed to list templates", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list templates"))
			return
		}

		render.JSON(w, r, Response{Templates: list})
	}
}
