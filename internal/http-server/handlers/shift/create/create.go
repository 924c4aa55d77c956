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

type ShiftCreator interface {
	CreateShift(ctx context.Context, req *api.ShiftRequest) (*api.ShiftResponse, error)
	CreateStaffShift(ctx context.Context, req *api.ShiftRequest) (*api.ShiftResponse, error)
}

type Request struct {
	api.ShiftRequest
}

type Response struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

// New creates a shift on behalf of an administrator. The shift is
// approved immediately.
func New(log *slog.Logger, creator ShiftCreator) http.HandlerFunc {
	return handle(log, "handlers.shift.create.New", creator.CreateShift)
}

// NewStaff creates a shift submitted by a staff member. The shift
// stays pending until an administrator decides on it.
func NewStaff(log *slog.Logger, creator ShiftCreator) http.HandlerFunc {
	return handle(log, "handlers.shift.create.NewStaff", creator.CreateStaffShift)
}

func handle(log *slog.Logger, op string, create func(ctx context.Context, req *api.ShiftRequest) (*api.ShiftResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		shift, err := create(r.Context(), &req.ShiftRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid shift data"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Referenced record not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff or shift type not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create shift"))
			return
		}

		log.Info("Shift created",
			slog.Int64("id", shift.ID),
			slog.Int64("staff_id", shift.StaffID),
			slog.String("date", shift.Date),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Shift: *shift,
		})
	}
}
