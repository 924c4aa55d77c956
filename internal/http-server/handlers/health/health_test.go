package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runReport(t *testing.T, db, cache Pinger, logDir string) (int, Report) {
	t.Helper()

	rec := httptest.NewRecorder()
	New(discardLogger(), db, cache, logDir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	return rec.Code, report
}

func TestHealthyReport(t *testing.T) {
	code, report := runReport(t, stubPinger{}, stubPinger{}, t.TempDir())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusHealthy, report.Status)
	assert.NotEmpty(t, report.Timestamp)

	for _, name := range []string{"database", "cache", "disk", "logs"} {
		check, ok := report.Checks[name]
		require.True(t, ok, name)
		assert.Equal(t, statusHealthy, check.Status, name)
	}
}

func TestDatabaseFailureIsUnhealthy(t *testing.T) {
	code, report := runReport(t, stubPinger{err: errors.New("connection refused")}, stubPinger{}, t.TempDir())

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, statusUnhealthy, report.Status)
	assert.Equal(t, statusUnhealthy, report.Checks["database"].Status)
}

func TestCacheFailureOnlyDegrades(t *testing.T) {
	code, report := runReport(t, stubPinger{}, stubPinger{err: errors.New("redis down")}, t.TempDir())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusDegraded, report.Status)
	assert.Equal(t, statusDegraded, report.Checks["cache"].Status)
}

func TestUnwritableLogDirDegrades(t *testing.T) {
	code, report := runReport(t, stubPinger{}, stubPinger{}, "/nonexistent/logs")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, statusDegraded, report.Status)
	assert.Equal(t, statusDegraded, report.Checks["logs"].Status)
}

func TestReady(t *testing.T) {
	rec := httptest.NewRecorder()
	NewReady(discardLogger(), stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewReady(discardLogger(), stubPinger{err: errors.New("connection refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
