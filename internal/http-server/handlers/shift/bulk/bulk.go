package bulk

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

type BulkCreator interface {
	BulkCreateShifts(ctx context.Context, req *api.BulkShiftRequest) (int, error)
}

type Request struct {
	api.BulkShiftRequest
}

type Response struct {
	response.Response
	ShiftsCreated int `json:"shifts_created"`
}

// New generates shifts for every selected staff member on every
// matching weekday inside the date range.
func New(log *slog.Logger, creator BulkCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shift.bulk.New"

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

		created, err := creator.BulkCreateShifts(r.Context(), &req.BulkShiftRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid bulk request"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift type not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift type not found"))
			return
		}

		if err != nil {
			log.Error("Failed to bulk create shifts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to bulk create shifts"))
			return
		}

		log.Info("Shifts bulk created", slog.Int("count", created))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{ShiftsCreated: created})
	}
}
