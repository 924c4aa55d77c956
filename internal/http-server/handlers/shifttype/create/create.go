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

type ShiftTypeCreator interface {
	CreateShiftType(ctx context.Context, req *api.ShiftTypeRequest) (*api.ShiftTypeResponse, error)
}

type Request struct {
	api.ShiftTypeRequest
}

type Response struct {
	response.Response
	ShiftType api.ShiftTypeResponse `json:"shift_type,omitempty"`
}

func New(log *slog.Logger, creator ShiftTypeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shifttype.create.New"

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

		shiftType, err := creator.CreateShiftType(r.Context(), &req.ShiftTypeRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid shift type data"))
			return
		}

		if err != nil {
			log.Error("Failed to create shift type", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create shift type"))
			return
		}

		log.Info("Shift type created", slog.Int64("id", shiftType.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{ShiftType: *shiftType})
	}
}
