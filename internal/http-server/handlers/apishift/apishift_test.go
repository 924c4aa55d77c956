package apishift_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-service/api"
	"shift-service/internal/http-server/handlers/apishift"
)

type stubShiftAPI struct {
	events    []api.ShiftEvent
	gotStart  string
	gotEnd    string
	eventsErr error
}

func (s *stubShiftAPI) ShiftEvents(_ context.Context, startDate, endDate string) ([]api.ShiftEvent, error) {
	s.gotStart = startDate
	s.gotEnd = endDate
	return s.events, s.eventsErr
}

func (s *stubShiftAPI) MoveShift(context.Context, *api.ShiftUpdateRequest) (*api.ShiftResponse, error) {
	return nil, nil
}

func (s *stubShiftAPI) DeleteShift(context.Context, int64) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventsRequiresDateRange(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"no params", "/api/shifts"},
		{"missing end", "/api/shifts?start=2024-01-01"},
		{"missing start", "/api/shifts?end=2024-01-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubShiftAPI{}
			rec := httptest.NewRecorder()

			apishift.NewEvents(discardLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "FAILED_TO_DECODE")
			assert.Empty(t, svc.gotStart)
		})
	}
}

func TestEventsReturnsBareArray(t *testing.T) {
	svc := &stubShiftAPI{events: []api.ShiftEvent{
		{ID: 1, Title: "日勤", Start: "2024-01-05T09:00:00", End: "2024-01-05T17:00:00", Editable: true},
	}}
	rec := httptest.NewRecorder()

	apishift.NewEvents(discardLogger(), svc).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/shifts?start=2024-01-01&end=2024-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-01", svc.gotStart)
	assert.Equal(t, "2024-01-31", svc.gotEnd)

	var events []api.ShiftEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "日勤", events[0].Title)
}

func TestEventsEmptyRangeIsEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()

	apishift.NewEvents(discardLogger(), &stubShiftAPI{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/shifts?start=2024-02-01&end=2024-02-29", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
