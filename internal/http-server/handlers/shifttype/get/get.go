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

type ShiftTypeGetter interface {
	GetShiftType(ctx context.Context, id int64) (*api.ShiftTypeResponse, error)
	ListShiftTypes(ctx context.Context) ([]api.ShiftTypeResponse, error)
}

type Response struct {
	response.Response
	ShiftTypes []api.ShiftTypeResponse `json:"shift_types"`
}

func New(log *slog.Logger, getter ShiftTypeGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.shifttype.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if raw := chi.URLParam(r, "id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				log.Error("Invalid id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid id"))
				return
			}

			shiftType, err := getter.GetShiftType(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("Shift type not found", slog.Int64("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "shift type not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get shift type", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get shift type"))
				return
			}

			render.JSON(w, r, Response{ShiftTypes: []api.ShiftTypeResponse{*shiftType}})
			return
		}

		list, err := getter.ListShiftTypes(r.Context())
		if err != nil {
			log.Error("Failed to list shift types", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list shift types"))
			return
		}

		render.JSON(w, r, Response{ShiftTypes: list})
	}
}
