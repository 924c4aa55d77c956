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

type StaffGetter interface {
	GetStaff(ctx context.Context, id int64) (*api.StaffResponse, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]api.StaffResponse, error)
}

type Response struct {
	response.Response
	Staff []api.StaffResponse `json:"staff"`
}

// New serves both the full listing and a single record when {id} is set.
// ?active=true narrows the listing to active staff.
func New(log *slog.Logger, getter StaffGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.staff.get.New"

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

			staff, err := getter.GetStaff(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("Staff not found", slog.Int64("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "staff not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get staff", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get staff"))
				return
			}

			render.JSON(w, r, Response{Staff: []api.StaffResponse{*staff}})
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"

		list, err := getter.ListStaff(r.Context(), activeOnly)
		if err != nil {
			log.Error("Failed to list staff", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list staff"))
			return
		}

		render.JSON(w, r, Response{Staff: list})
	}
}
