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

type ShiftTypeDeleter interface {
	DeleteShiftType(ctx context.Context, id int64) error
}

type Response struct {
	response.Response
	Deleted bool `json:"deleted"`
}

// New removes the type. Shifts that referenced it stay with a null type.
func New(log *slog.Logger, deleter ShiftTypeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shifttype.delete.New"

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

		err = deleter.DeleteShiftType(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift type not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift type not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete shift type", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete shift type"))
			return
		}

		log.Info("Shift type deleted", slog.Int64("id", id))

		render.JSON(w, r, Response{Deleted: true})
	}
}
