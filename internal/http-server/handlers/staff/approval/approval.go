package approval

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

type StaffApprover interface {
	ApproveStaff(ctx context.Context, req *api.ApproveRequest) (*api.StaffResponse, error)
	RejectStaff(ctx context.Context, req *api.RejectRequest) (*api.StaffResponse, error)
}

type Response struct {
	response.Response
	Staff api.StaffResponse `json:"staff,omitempty"`
}

func NewApprove(log *slog.Logger, approver StaffApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.staff.approval.NewApprove"

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

		var req api.ApproveRequest
		_ = render.DecodeJSON(r.Body, &req)
		req.ID = id

		staff, err := approver.ApproveStaff(r.Context(), &req)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Staff not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff not found"))
			return
		}

		if err != nil {
			log.Error("Failed to approve staff", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to approve staff"))
			return
		}

		log.Info("Staff approved", slog.Int64("id", id))

		render.JSON(w, r, Response{Staff: *staff})
	}
}

func NewReject(log *slog.Logger, approver StaffApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.staff.approval.NewReject"

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

		var req api.RejectRequest
		_ = render.DecodeJSON(r.Body, &req)
		req.ID = id

		staff, err := approver.RejectStaff(r.Context(), &req)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Staff not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff not found"))
			return
		}

		if err != nil {
			log.Error("Failed to reject staff", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to reject staff"))
			return
		}

		log.Info("Staff rejected", slog.Int64("id", id))

		render.JSON(w, r, Response{Staff: *staff})
	}
}
