package apishift

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

// ShiftAPI backs the calendar widget endpoints: event feed, drag-drop
// moves and deletes.
type ShiftAPI interface {
	ShiftEvents(ctx context.Context, startDate, endDate string) ([]api.ShiftEvent, error)
	MoveShift(ctx context.Context, req *api.ShiftUpdateRequest) (*api.ShiftResponse, error)
	DeleteShift(ctx context.Context, id int64) error
}

type UpdateResponse struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

type DeleteResponse struct {
	response.Response
	Deleted bool `json:"deleted"`
}

// NewEvents serves the event feed as a bare array, the shape the
// calendar widget expects.
func NewEvents(log *slog.Logger, svc ShiftAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.apishift.NewEvents"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		start := r.URL.Query().Get("start")
		end := r.URL.Query().Get("end")

		if start == "" || end == "" {
			log.Error("Missing date range parameters")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "start and end are required"))
			return
		}

		events, err := svc.ShiftEvents(r.Context(), start, end)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date range"))
			return
		}

		if err != nil {
			log.Error("Failed to load shift events", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to load shift events"))
			return
		}

		if events == nil {
			events = []api.ShiftEvent{}
		}

		render.JSON(w, r, events)
	}
}

// NewUpdate applies a drag-drop move: date, staff and times can change,
// everything else stays as is.
func NewUpdate(log *slog.Logger, svc ShiftAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.apishift.NewUpdate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.ShiftUpdateRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		shift, err := svc.MoveShift(r.Context(), &req)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid shift data"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", req.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to move shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to move shift"))
			return
		}

		log.Info("Shift moved", slog.Int64("id", shift.ID))

		render.JSON(w, r, UpdateResponse{
			Shift: *shift,
		})
	}
}

func NewDelete(log *slog.Logger, svc ShiftAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.apishift.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.ShiftDeleteRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		err := svc.DeleteShift(r.Context(), req.ID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", req.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete shift"))
			return
		}

		log.Info("Shift deleted", slog.Int64("id", req.ID))

		render.JSON(w, r, DeleteResponse{Deleted: true})
	}
}
