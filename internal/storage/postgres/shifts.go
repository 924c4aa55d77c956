package postgres

import (
	"context"
	"fmt"
	"time"

	"shift-service/internal/models"
	"shift-service/pkg/response"
)

const shiftColumns = `s.id, s.staff_id, st.name, s.shift_type_id,
	COALESCE(t.name, ''), COALESCE(t.color, ''), s.date, s.start_time, s.end_time,
	s.notes, s.is_deleted_with_reason, s.deletion_reason, s.approval_status,
	s.approved_at, s.approved_by, s.rejection_reason, s.created_by, s.created_at, s.updated_at`

const shiftFrom = ` FROM shifts s
	JOIN staff st ON st.id = s.staff_id
	LEFT JOIN shift_types t ON t.id = s.shift_type_id`

func scanShift(row interface{ Scan(...any) error }) (*models.Shift, error) {
	var sh models.Shift
	err := row.Scan(
		&sh.ID,
		&sh.StaffID,
		&sh.StaffName,
		&sh.ShiftTypeID,
		&sh.ShiftTypeName,
		&sh.ShiftTypeColor,
		&sh.Date,
		&sh.StartTime,
		&sh.EndTime,
		&sh.Notes,
		&sh.IsDeletedWithReason,
		&sh.DeletionReason,
		&sh.ApprovalStatus,
		&sh.ApprovedAt,
		&sh.ApprovedBy,
		&sh.RejectionReason,
		&sh.CreatedBy,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &sh, nil
}

func (s *Storage) queryShifts(ctx context.Context, op, where string, args ...any) ([]*models.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shiftColumns+shiftFrom+` `+where+` ORDER BY s.date, s.start_time NULLS FIRST, s.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var list []*models.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list = append(list, sh)
	}

	return list, rows.Err()
}

func (s *Storage) CreateShift(ctx context.Context, sh *models.Shift) (int64, error) {
	const op = "storage.postgres.CreateShift"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO shifts (staff_id, shift_type_id, date, start_time, end_time, notes,
			is_deleted_with_reason, deletion_reason, approval_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		sh.StaffID, sh.ShiftTypeID, sh.Date, sh.StartTime, sh.EndTime, sh.Notes,
		sh.IsDeletedWithReason, sh.DeletionReason, sh.ApprovalStatus, sh.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, mapError(op, err)
	}

	return id, nil
}

func (s *Storage) GetShift(ctx context.Context, id int64) (*models.Shift, error) {
	const op = "storage.postgres.GetShift"

	sh, err := scanShift(s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+shiftFrom+` WHERE s.id=$1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}

	return sh, nil
}

func (s *Storage) ListShiftsByRange(ctx context.Context, start, end time.Time) ([]*models.Shift, error) {
	const op = "storage.postgres.ListShiftsByRange"

	return s.queryShifts(ctx, op, `WHERE s.date BETWEEN $1 AND $2`, start, end)
}

func (s *Storage) ListShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) ([]*models.Shift, error) {
	const op = "storage.postgres.ListShiftsByStaffDate"

	return s.queryShifts(ctx, op, `WHERE s.staff_id=$1 AND s.date=$2`, staffID, date)
}

func (s *Storage) ListPendingShifts(ctx context.Context) ([]*models.Shift, error) {
	const op = "storage.postgres.ListPendingShifts"

	return s.queryShifts(ctx, op, `WHERE s.approval_status='pending'`)
}

func (s *Storage) UpdateShift(ctx context.Context, sh *models.Shift) error {
	const op = "storage.postgres.UpdateShift"

	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET staff_id=$1, shift_type_id=$2, date=$3, start_time=$4, end_time=$5,
			notes=$6, updated_at=now()
		WHERE id=$7`,
		sh.StaffID, sh.ShiftTypeID, sh.Date, sh.StartTime, sh.EndTime, sh.Notes, sh.ID,
	)
	if err != nil {
		return mapError(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteShift(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteShift"

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// DeleteShiftsByStaffDate clears every record, worked or reason, the staff
// member has on the date. Used by the overwrite policy and before inserting
// a reason record.
func (s *Storage) DeleteShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) (int64, error) {
	const op = "storage.postgres.DeleteShiftsByStaffDate"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shifts WHERE staff_id=$1 AND date=$2`, staffID, date)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) CountShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) (int64, error) {
	const op = "storage.postgres.CountShiftsByStaffDate"

	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shifts WHERE staff_id=$1 AND date=$2`, staffID, date).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) UpdateShiftApproval(ctx context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error {
	const op = "storage.postgres.UpdateShiftApproval"

	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET approval_status=$1, approved_by=$2, approved_at=$3, rejection_reason=$4, updated_at=now()
		WHERE id=$5`,
		status, approvedBy, approvedAt, reason, id,
	)
	if err != nil {
		return mapError(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// BulkUpdatePendingShifts transitions every pending shift and reports how
// many were touched. Already-decided shifts are left as they are.
func (s *Storage) BulkUpdatePendingShifts(ctx context.Context, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time) (int64, error) {
	const op = "storage.postgres.BulkUpdatePendingShifts"

	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET approval_status=$1, approved_by=$2, approved_at=$3, updated_at=now()
		WHERE approval_status='pending'`,
		status, approvedBy, approvedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
