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

func seedTemplateWithDetail(t *testing.T, svc *Service, fs *fakeStore, weekday int) (templateID, staffID int64) {
	t.Helper()
	ctx := context.Background()

	staffID = seedStaff(t, fs, "山田")
	typeID := seedShiftType(t, fs, "日勤", "09:00", "17:00")

	tmpl, err := svc.CreateTemplate(ctx, &api.TemplateRequest{Name: "基本"})
	require.NoError(t, err)

	_, err = svc.AddTemplateDetail(ctx, tmpl.ID, &api.TemplateDetailRequest{
		StaffID:     staffID,
		ShiftTypeID: typeID,
		Weekday:     weekday,
		StartTime:   "09:00",
		EndTime:     "17:00",
	})
	require.NoError(t, err)

	return tmpl.ID, staffID
}

func TestApplyTemplateMatchingWeekdaysOnly(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	// Weekday 0 is Monday; 2024-01-01 and 2024-01-08 are the only
	// Mondays in the range.
	templateID, staffID := seedTemplateWithDetail(t, svc, fs, 0)

	created, err := svc.ApplyTemplate(ctx, templateID, &api.TemplateApplyRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	shifts, err := fs.ListShiftsByRange(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	for _, sh := range shifts {
		assert.Equal(t, staffID, sh.StaffID)
		assert.Equal(t, 0, models.Weekday(sh.Date))
		assert.Equal(t, models.ApprovalApproved, sh.ApprovalStatus)
	}
}

func TestApplyTemplateSkipsOccupiedDays(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	templateID, staffID := seedTemplateWithDetail(t, svc, fs, 0)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)
	et := time.Date(0, 1, 1, 20, 0, 0, 0, time.UTC)
	existingID, err := fs.CreateShift(ctx, &models.Shift{
		StaffID:        staffID,
		Date:           start,
		StartTime:      &st,
		EndTime:        &et,
		ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)

	created, err := svc.ApplyTemplate(ctx, templateID, &api.TemplateApplyRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// The existing shift is untouched.
	sh, err := fs.GetShift(ctx, existingID)
	require.NoError(t, err)
	assert.Equal(t, "12:00", sh.StartTime.Format("15:04"))
}

func TestApplyTemplateOverwriteReplaces(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	templateID, staffID := seedTemplateWithDetail(t, svc, fs, 0)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)
	et := time.Date(0, 1, 1, 20, 0, 0, 0, time.UTC)
	existingID, err := fs.CreateShift(ctx, &models.Shift{
		StaffID:        staffID,
		Date:           start,
		StartTime:      &st,
		EndTime:        &et,
		ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)

	created, err := svc.ApplyTemplate(ctx, templateID, &api.TemplateApplyRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Overwrite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	_, err = fs.GetShift(ctx, existingID)
	assert.ErrorIs(t, err, response.ErrNotFound)

	shifts, err := fs.ListShiftsByStaffDate(ctx, staffID, start)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "09:00", shifts[0].StartTime.Format("15:04"))
}

func TestApplyTemplateRejectsReversedRange(t *testing.T) {
	svc, fs := newTestService(t)

	templateID, _ := seedTemplateWithDetail(t, svc, fs, 0)

	_, err := svc.ApplyTemplate(context.Background(), templateID, &api.TemplateApplyRequest{
		StartDate: "2024-01-14",
		EndDate:   "2024-01-01",
	})
	assert.ErrorIs(t, err, response.ErrValidation)
}

func TestBulkCreateShifts(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffA := seedStaff(t, fs, "佐藤")
	staffB := seedStaff(t, fs, "鈴木")
	typeID := seedShiftType(t, fs, "遅番", "13:00", "21:00")

	// Mondays and Wednesdays in 2024-01-01..07: the 1st and the 3rd.
	created, err := svc.BulkCreateShifts(ctx, &api.BulkShiftRequest{
		StaffIDs:    []int64{staffA, staffB},
		ShiftTypeID: typeID,
		Weekdays:    []int{0, 2},
		StartTime:   "13:00",
		EndTime:     "21:00",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-07",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	shifts, err := fs.ListShiftsByRange(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Len(t, shifts, 4)

	for _, sh := range shifts {
		assert.Equal(t, models.ApprovalApproved, sh.ApprovalStatus)
		assert.Contains(t, []int{0, 2}, models.Weekday(sh.Date))
	}
}

func TestBulkCreateShiftsValidatesBeforeWriting(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "高橋")
	typeID := seedShiftType(t, fs, "早番", "08:00", "16:00")

	base := api.BulkShiftRequest{
		StaffIDs:    []int64{staffID},
		ShiftTypeID: typeID,
		Weekdays:    []int{0},
		StartTime:   "08:00",
		EndTime:     "16:00",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-07",
	}

	cases := []struct {
		name   string
		mutate func(*api.BulkShiftRequest)
	}{
		{"reversed range", func(r *api.BulkShiftRequest) { r.StartDate, r.EndDate = r.EndDate, r.StartDate }},
		{"no staff", func(r *api.BulkShiftRequest) { r.StaffIDs = nil }},
		{"no weekdays", func(r *api.BulkShiftRequest) { r.Weekdays = nil }},
		{"weekday out of range", func(r *api.BulkShiftRequest) { r.Weekdays = []int{7} }},
		{"end before start time", func(r *api.BulkShiftRequest) { r.EndTime = "07:00" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)

			created, err := svc.BulkCreateShifts(ctx, &req)
			assert.ErrorIs(t, err, response.ErrValidation)
			assert.Zero(t, created)
			assert.Empty(t, fs.shifts)
		})
	}
}

func TestBulkCreateShiftsUnknownType(t *testing.T) {
	svc, fs := newTestService(t)

	staffID := seedStaff(t, fs, "伊藤")

	_, err := svc.BulkCreateShifts(context.Background(), &api.BulkShiftRequest{
		StaffIDs:    []int64{staffID},
		ShiftTypeID: 99,
		Weekdays:    []int{0},
		StartTime:   "08:00",
		EndTime:     "16:00",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-07",
	})
	assert.ErrorIs(t, err, response.ErrNotFound)
	assert.Empty(t, fs.shifts)
}
