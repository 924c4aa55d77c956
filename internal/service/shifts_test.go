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

func TestCreateReasonShiftClearsTheDay(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "木村")
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	seedShiftWithStatus(t, fs, staffID, date, models.ApprovalApproved)
	seedShiftWithStatus(t, fs, staffID, date, models.ApprovalPending)

	resp, err := svc.CreateReasonShift(ctx, &api.ReasonShiftRequest{
		StaffID: staffID,
		Date:    "2024-03-04",
		Reason:  "paid_leave",
	})
	require.NoError(t, err)

	assert.True(t, resp.IsReason)
	assert.Equal(t, "paid_leave", resp.Reason)
	assert.Equal(t, "有給休暇", resp.ReasonLabel)

	// The reason record is the only thing left on that day.
	shifts, err := fs.ListShiftsByStaffDate(ctx, staffID, date)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.True(t, shifts[0].IsDeletedWithReason)
}

func TestCreateReasonShiftUnknownReason(t *testing.T) {
	svc, fs := newTestService(t)

	staffID := seedStaff(t, fs, "林")

	_, err := svc.CreateReasonShift(context.Background(), &api.ReasonShiftRequest{
		StaffID: staffID,
		Date:    "2024-03-04",
		Reason:  "vacation",
	})
	assert.ErrorIs(t, err, response.ErrValidation)
}

func TestMoveShift(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffA := seedStaff(t, fs, "清水")
	staffB := seedStaff(t, fs, "森")
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	shiftID := seedShiftWithStatus(t, fs, staffA, date, models.ApprovalApproved)

	newStart := "10:00"
	resp, err := svc.MoveShift(ctx, &api.ShiftUpdateRequest{
		ID:        shiftID,
		Date:      "2024-03-05",
		StaffID:   &staffB,
		StartTime: &newStart,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, staffB, resp.StaffID)
	assert.Equal(t, "10:00", resp.StartTime)
	// Untouched fields survive the move.
	assert.Equal(t, "17:00", resp.EndTime)
}

func TestMoveShiftRejectsInvertedTimes(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "池田")
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	shiftID := seedShiftWithStatus(t, fs, staffID, date, models.ApprovalApproved)

	badStart := "18:00"
	_, err := svc.MoveShift(ctx, &api.ShiftUpdateRequest{ID: shiftID, StartTime: &badStart})
	assert.ErrorIs(t, err, response.ErrValidation)
}

func TestShiftEvents(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "橋本")
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	seedShiftWithStatus(t, fs, staffID, date, models.ApprovalApproved)

	reason := models.ReasonAbsenteeism
	_, err := fs.CreateShift(ctx, &models.Shift{
		StaffID:             staffID,
		Date:                date.AddDate(0, 0, 1),
		IsDeletedWithReason: true,
		DeletionReason:      &reason,
		ApprovalStatus:      models.ApprovalApproved,
	})
	require.NoError(t, err)

	events, err := svc.ShiftEvents(ctx, "2024-03-04", "2024-03-05")
	require.NoError(t, err)
	require.Len(t, events, 2)

	worked := events[0]
	assert.Equal(t, "2024-03-04T09:00:00", worked.Start)
	assert.Equal(t, "2024-03-04T17:00:00", worked.End)
	assert.True(t, worked.Editable)
	assert.False(t, worked.AllDay)

	absent := events[1]
	assert.True(t, absent.IsReason)
	assert.True(t, absent.AllDay)
	assert.False(t, absent.Editable)
	assert.Equal(t, "2024-03-05", absent.Start)
	assert.Contains(t, absent.Title, "欠勤")
}

func TestDeleteShiftNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteShift(context.Background(), 99)
	assert.ErrorIs(t, err, response.ErrNotFound)
}
