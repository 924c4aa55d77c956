package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"shift-service/api"
	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type TemplateCreator interface {
	CreateTemplate(ctx context.Context, req *api.TemplateRequest) (*api.TemplateResponse, error)
}

type Request struct {
	api.TemplateRequest
}

type Response struct {
	response.Response
	Template api.TemplateResponse `json:"template,omitempty"`
}

func New(log *slog.Logger, creator TemplateCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.create.New"

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

		tmpl, err := creator.CreateTemplate(r.Context(), &req.TemplateRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "name is required"))
			return
		}

		if err != nil {
			log.Error("Failed to create template", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create template"))
			return
		}

		log.Info("Template created", slog.Int64("id", tmpl.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Template: *tmpl,
		})
	}
}
