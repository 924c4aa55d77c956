package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"shift-service/api"
	"shift-service/pkg/response"
	"shift-service/pkg/sl"
)

type CalendarProvider interface {
	Calendar(ctx context.Context, startDate, endDate string) (*api.CalendarResponse, error)
}

type Response struct {
	response.Response
	Calendar api.CalendarResponse `json:"calendar"`
}

// New builds the per-day, per-staff calendar view. Without query
// parameters the current month is shown.
func New(log *slog.Logger, provider CalendarProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		start, end := DateRange(r)

		cal, err := provider.Calendar(r.Context(), start, end)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid date range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid date range"))
			return
		}

		if err != nil {
			log.Error("Failed to build calendar", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build calendar"))
			return
		}

		render.JSON(w, r, Response{Calendar: *cal})
	}
}

// DateRange reads start/end from the query, falling back to the
// first and last day of the current month.
func DateRange(r *http.Request) (start, end string) {
	start = r.URL.Query().Get("start")
	end = r.URL.Query().Get("end")

	if start != "" && end != "" {
		return start, end
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	if start == "" {
		start = first.Format("2006-01-02")
	}
	if end == "" {
		end = last.Format("2006-01-02")
	}

	return start, end
}
