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

type StaffCreator interface {
	CreateStaff(ctx context.Context, req *api.StaffRequest) (*api.StaffResponse, error)
}

type Request struct {
	api.StaffRequest
}

type Response struct {
	response.Response
	Staff api.StaffResponse `json:"staff,omitempty"`
}

func New(log *slog.Logger, creator StaffCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.staff.create.New"

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

		staff, err := creator.CreateStaff(r.Context(), &req.StaffRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "name is required"))
			return
		}

		if err != nil {
			log.Error("Failed to create staff", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create staff"))
			return
		}

		log.Info("Staff created", slog.Int64("id", staff.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Staff: *staff,
		})
	}
}
