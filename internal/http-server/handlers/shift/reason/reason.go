package reason

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

type ReasonCreator interface {
	CreateReasonShift(ctx context.Context, req *api.ReasonShiftRequest) (*api.ShiftResponse, error)
}

type Request struct {
	api.ReasonShiftRequest
}

type Response struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

// New records an absence reason for a staff member on a date. Any
// shifts already on that date are removed.
func New(log *slog.Logger, creator ReasonCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shift.reason.New"

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

		shift, err := creator.CreateReasonShift(r.Context(), &req.ReasonShiftRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid reason"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Staff not found", slog.Int64("staff_id", req.StaffID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create reason record", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create reason record"))
			return
		}

		log.Info("Reason record created",
			slog.Int64("id", shift.ID),
			slog.Int64("staff_id", shift.StaffID),
			slog.String("reason", shift.Reason),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Shift: *shift,
		})
	}
}
