package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBlocksWhenOn(t *testing.T) {
	flag := func(context.Context) (bool, error) { return true, nil }
	h := New(discardLogger(), flag)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "MAINTENANCE")
}

func TestPassesWhenOff(t *testing.T) {
	flag := func(context.Context) (bool, error) { return false, nil }
	h := New(discardLogger(), flag)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthStaysReachable(t *testing.T) {
	flag := func(context.Context) (bool, error) { return true, nil }
	h := New(discardLogger(), flag)(okHandler())

	for _, path := range []string{"/health", "/ready", "/live"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestFailsOpenOnFlagError(t *testing.T) {
	flag := func(context.Context) (bool, error) { return false, errors.New("redis down") }
	h := New(discardLogger(), flag)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
