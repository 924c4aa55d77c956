package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type StaffDeactivator interface {
	DeactivateStaff(ctx context.Context, id int64) error
}

type Response struct {
	response.Response
	Deactivated bool `json:"deactivated"`
}

// New soft-deletes: the staff row stays, only the active flag flips.
func New(log *slog.Logger, deactivator StaffDeactivator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.staff.delete.New"

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

		err = deactivator.DeactivateStaff(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Staff not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff not found"))
			return
		}

		if err != nil {
			log.Error("Failed to deactivate staff", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to deactivate staff"))
			return
		}

		log.Info("Staff deactivated", slog.Int64("id", id))

		render.JSON(w, r, Response{Deactivated: true})
	}
}
