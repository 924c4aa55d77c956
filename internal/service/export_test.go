package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

func TestExportCSV(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffA := seedStaff(t, fs, "青木")
	staffB := seedStaff(t, fs, "藤田")
	typeID := seedShiftType(t, fs, "日勤", "09:00", "17:00")

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := fs.CreateShift(ctx, &models.Shift{
		StaffID:        staffA,
		ShiftTypeID:    &typeID,
		Date:           date,
		StartTime:      timeOfDay(9, 0),
		EndTime:        timeOfDay(17, 0),
		ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)

	reason := models.ReasonPublicHoliday
	_, err = fs.CreateShift(ctx, &models.Shift{
		StaffID:             staffB,
		Date:                date,
		IsDeletedWithReason: true,
		DeletionReason:      &reason,
		ApprovalStatus:      models.ApprovalApproved,
	})
	require.NoError(t, err)

	result, err := svc.Export(ctx, &api.ExportRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
		Format:    "csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Equal(t, "shifts_20240101_20240103.csv", result.Filename)

	bom := []byte{0xEF, 0xBB, 0xBF}
	require.True(t, bytes.HasPrefix(result.Data, bom))

	rows, err := csv.NewReader(bytes.NewReader(result.Data[len(bom):])).ReadAll()
	require.NoError(t, err)

	// Header plus one row per staff member; name column plus one per day.
	require.Len(t, rows, 3)
	require.Len(t, rows[0], 4)

	assert.Equal(t, "スタッフ名", rows[0][0])
	// 2024-01-01 is a Monday.
	assert.Equal(t, "2024/01/01(月)", rows[0][1])
	assert.Equal(t, "2024/01/02(火)", rows[0][2])

	assert.Equal(t, "青木", rows[1][0])
	assert.Equal(t, "日勤 09:00〜17:00", rows[1][1])
	assert.Empty(t, rows[1][2])

	assert.Equal(t, "藤田", rows[2][0])
	assert.Equal(t, "公休", rows[2][1])
}

func TestExportPDF(t *testing.T) {
	svc, fs := newTestService(t)

	seedStaff(t, fs, "岡田")

	result, err := svc.Export(context.Background(), &api.ExportRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
		Format:    "pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "shifts_20240101_20240107.pdf", result.Filename)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
}

func TestExportStaffSubset(t *testing.T) {
	svc, fs := newTestService(t)

	staffA := seedStaff(t, fs, "長谷川")
	seedStaff(t, fs, "村上")

	result, err := svc.Export(context.Background(), &api.ExportRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		StaffIDs:  []int64{staffA},
		Format:    "csv",
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(result.Data[3:])).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "長谷川", rows[1][0])
}

func TestExportUnknownFormat(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Export(context.Background(), &api.ExportRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Format:    "xlsx",
	})
	assert.ErrorIs(t, err, response.ErrValidation)
}
