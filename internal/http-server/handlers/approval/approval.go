package approval

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

// ShiftApprover covers the pending-shift review workflow.
type ShiftApprover interface {
	PendingShifts(ctx context.Context) ([]api.ShiftResponse, error)
	ApproveShift(ctx context.Context, req *api.ApproveRequest) (*api.ShiftResponse, error)
	RejectShift(ctx context.Context, req *api.RejectRequest) (*api.ShiftResponse, error)
	BulkDecideShifts(ctx context.Context, req *api.BulkApproveRequest) (int64, error)
}

type PendingResponse struct {
	response.Response
	Shifts []api.ShiftResponse `json:"shifts"`
}

type DecisionResponse struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

type BulkResponse struct {
	response.Response
	Updated int64 `json:"updated"`
}

func NewPending(log *slog.Logger, approver ShiftApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.approval.NewPending"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		shifts, err := approver.PendingShifts(r.Context())
		if err != nil {
			log.Error("Failed to list pending shifts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list pending shifts"))
			return
		}

		render.JSON(w, r, PendingResponse{Shifts: shifts})
	}
}

func NewApprove(log *slog.Logger, approver ShiftApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.approval.NewApprove"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.ApproveRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		shift, err := approver.ApproveShift(r.Context(), &req)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", req.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to approve shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to approve shift"))
			return
		}

		log.Info("Shift approved", slog.Int64("id", shift.ID))

		render.JSON(w, r, DecisionResponse{
			Shift: *shift,
		})
	}
}

func NewReject(log *slog.Logger, approver ShiftApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.approval.NewReject"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.RejectRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		shift, err := approver.RejectShift(r.Context(), &req)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", req.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to reject shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to reject shift"))
			return
		}

		log.Info("Shift rejected", slog.Int64("id", shift.ID))

		render.JSON(w, r, DecisionResponse{
			Shift: *shift,
		})
	}
}

// NewBulk decides every pending shift at once. Shifts that already
// carry a decision are left untouched.
func NewBulk(log *slog.Logger, approver ShiftApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.approval.NewBulk"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req api.BulkApproveRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		updated, err := approver.BulkDecideShifts(r.Context(), &req)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid action", slog.String("action", req.Action))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "action must be approve or reject"))
			return
		}

		if err != nil {
			log.Error("Failed to bulk decide shifts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to bulk decide shifts"))
			return
		}

		log.Info("Pending shifts decided",
			slog.String("action", req.Action),
			slog.Int64("updated", updated),
		)

		render.JSON(w, r, BulkResponse{Updated: updated})
	}
}
