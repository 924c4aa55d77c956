package get

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

type ShiftGetter interface {
	GetShiftByID(ctx context.Context, id int64) (*api.ShiftResponse, error)
}

type Response struct {
	response.Response
	Shift api.ShiftResponse `json:"shift,omitempty"`
}

func New(log *slog.Logger, getter ShiftGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shift.get.New"

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

		shift, err := getter.GetShiftByID(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Shift not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get shift"))
			return
		}

		render.JSON(w, r, Response{
			Shift: *shift,
		})
	}
}
