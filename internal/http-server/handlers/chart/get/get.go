package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"shift-service/api"
	calendarget "shift-service/internal/http-server/handlers/calendar/get"
	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type ChartProvider interface {
	TimeChart(ctx context.Context, startDate, endDate string) (*api.ChartResponse, error)
}

type Response struct {
	response.Response
	Chart api.ChartResponse `json:"chart"`
}

// New builds the time chart view with per-day bars positioned inside
// the 06:00-24:00 window and summary statistics.
func New(log *slog.Logger, provider ChartProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chart.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		start, end := calendarget.DateRange(r)

		chart, err := provider.TimeChart(r.Context(), start, end)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date range"))
			return
		}

		if err != nil {
			log.Error("Failed to build chart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build chart"))
			return
		}

		render.JSON(w, r, Response{Chart: *chart})
	}
}
