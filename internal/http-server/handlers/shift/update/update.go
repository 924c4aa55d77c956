package update

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

type ShiftUpdater interface {
	UpdateShift(ctx context.Context, id int64, req *api.ShiftRequest) (*api.ShiftResponse, error)
}

type Request struct {
	api.ShiftRequest
}

type Response struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

func New(log *slog.Logger, updater ShiftUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shift.update.New"

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

		shift, err := updater.UpdateShift(r.Context(), id, &req.ShiftRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid shift data"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to update shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update shift"))
			return
		}

		log.Info("Shift updated", slog.Int64("id", shift.ID))

		render.JSON(w, r, Response{
			Shift: *shift,
		})
	}
}
