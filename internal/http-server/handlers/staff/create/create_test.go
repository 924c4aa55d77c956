package create

import (
	"bytes"
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
	"shift-service/pkg/response"
)

type stubCreator struct {
	resp *api.StaffResponse
	err  error
}

func (s *stubCreator) CreateStaff(_ context.Context, _ *api.StaffRequest) (*api.StaffResponse, error) {
	return s.resp, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateStaff(t *testing.T) {
	creator := &stubCreator{resp: &api.StaffResponse{
		ID:             1,
		Name:           "田中",
		IsActive:       true,
		ApprovalStatus: "pending",
	}}

	body := bytes.NewBufferString(`{"name":"田中"}`)
	req := httptest.NewRequest(http.MethodPost, "/staff/create", body)
	rec := httptest.NewRecorder()

	New(discardLogger(), creator).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Staff.ID)
	assert.Equal(t, "田中", resp.Staff.Name)
}

func TestCreateStaffValidation(t *testing.T) {
	creator := &stubCreator{err: response.ErrValidation}

	req := httptest.NewRequest(http.MethodPost, "/staff/create", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	New(discardLogger(), creator).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestCreateStaffBadBody(t *testing.T) {
	creator := &stubCreator{}

	req := httptest.NewRequest(http.MethodPost, "/staff/create", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()

	New(discardLogger(), creator).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FAILED_TO_DECODE")
}
