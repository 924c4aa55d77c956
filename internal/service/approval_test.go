package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

func seedShiftWithStatus(t *testing.T, fs *fakeStore, staffID int64, date time.Time, status models.ApprovalStatus) int64 {
	t.Helper()
	id, err := fs.CreateShift(context.Background(), &models.Shift{
		StaffID:        staffID,
		Date:           date,
		StartTime:      timeOfDay(9, 0),
		EndTime:        timeOfDay(17, 0),
		ApprovalStatus: status,
	})
	require.NoError(t, err)
	return id
}

func TestApproveShiftRecordsDecision(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "渡辺")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	shiftID := seedShiftWithStatus(t, fs, staffID, date, models.ApprovalPending)

	approver := int64(42)
	resp, err := svc.ApproveShift(ctx, &api.ApproveRequest{ID: shiftID, ApproverID: &approver})
	require.NoError(t, err)

	assert.Equal(t, string(models.ApprovalApproved), resp.ApprovalStatus)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approver, *resp.ApprovedBy)
	assert.NotNil(t, resp.ApprovedAt)
	assert.Empty(t, resp.RejectionReason)
}

func TestRejectShiftStoresReason(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "斎藤")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	shiftID := seedShiftWithStatus(t, fs, staffID, date, models.ApprovalPending)

	resp, err := svc.RejectShift(ctx, &api.RejectRequest{ID: shiftID, Reason: "人員過剰"})
	require.NoError(t, err)

	assert.Equal(t, string(models.ApprovalRejected), resp.ApprovalStatus)
	assert.Nil(t, resp.ApprovedBy)
	assert.Nil(t, resp.ApprovedAt)
	assert.Equal(t, "人員過剰", resp.RejectionReason)
}

func TestBulkDecideOnlyTouchesPending(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "山本")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	pending := []int64{
		seedShiftWithStatus(t, fs, staffID, date, models.ApprovalPending),
		seedShiftWithStatus(t, fs, staffID, date.AddDate(0, 0, 1), models.ApprovalPending),
		seedShiftWithStatus(t, fs, staffID, date.AddDate(0, 0, 2), models.ApprovalPending),
	}
	approvedID := seedShiftWithStatus(t, fs, staffID, date.AddDate(0, 0, 3), models.ApprovalApproved)
	rejectedID := seedShiftWithStatus(t, fs, staffID, date.AddDate(0, 0, 4), models.ApprovalRejected)

	n, err := svc.BulkDecideShifts(ctx, &api.BulkApproveRequest{Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, id := range pending {
		sh, err := fs.GetShift(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalApproved, sh.ApprovalStatus)
	}

	// Already-decided shifts keep their state.
	sh, err := fs.GetShift(ctx, rejectedID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, sh.ApprovalStatus)

	sh, err = fs.GetShift(ctx, approvedID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, sh.ApprovalStatus)

	left, err := svc.PendingShifts(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestBulkDecideUnknownAction(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BulkDecideShifts(context.Background(), &api.BulkApproveRequest{Action: "defer"})
	assert.ErrorIs(t, err, response.ErrValidation)
}

func TestStaffShiftStartsPending(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "松本")

	resp, err := svc.CreateStaffShift(ctx, &api.ShiftRequest{
		StaffID:   staffID,
		Date:      "2024-02-01",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApprovalPending), resp.ApprovalStatus)

	// The admin path lands approved immediately.
	resp, err = svc.CreateShift(ctx, &api.ShiftRequest{
		StaffID:   staffID,
		Date:      "2024-02-02",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApprovalApproved), resp.ApprovalStatus)
}

func TestRejectStaff(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "井上")

	resp, err := svc.RejectStaff(ctx, &api.RejectRequest{ID: staffID, Reason: "書類不備"})
	require.NoError(t, err)

	assert.Equal(t, string(models.ApprovalRejected), resp.ApprovalStatus)
	assert.Equal(t, "書類不備", resp.RejectionReason)
}
