package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lib/pq"

	"shift-service/internal/models"
	"shift-service/pkg/response"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate executes every .sql file in dir in lexical order.
func (s *Storage) Migrate(ctx context.Context, dir string) error {
	const op = "storage.postgres.Migrate"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("%s: apply %s: %w", op, name, err)
		}
	}

	return nil
}

// mapError translates driver errors into the sentinel errors handlers know.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// #### staff ####

const staffColumns = `id, user_id, name, phone, email, position, is_active,
	approval_status, approved_at, approved_by, rejection_reason, created_at, updated_at`

func scanStaff(row interface{ Scan(...any) error }) (*models.Staff, error) {
	var st models.Staff
	err := row.Scan(
		&st.ID,
		&st.UserID,
		&st.Name,
		&st.Phone,
		&st.Email,
		&st.Position,
		&st.IsActive,
		&st.ApprovalStatus,
		&st.ApprovedAt,
		&st.ApprovedBy,
		&st.RejectionReason,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func (s *Storage) CreateStaff(ctx context.Context, st *models.Staff) (int64, error) {
	const op = "storage.postgres.CreateStaff"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO staff (user_id, name, phone, email, position, is_active, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		st.UserID, st.Name, st.Phone, st.Email, st.Position, st.IsActive, st.ApprovalStatus,
	).Scan(&id)
	if err != nil {
		return 0, mapError(op, err)
	}

	return id, nil
}

func (s *Storage) GetStaff(ctx context.Context, id int64) (*models.Staff, error) {
	const op = "storage.postgres.GetStaff"

	st, err := scanStaff(s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}

	return st, nil
}

func (s *Storage) ListStaff(ctx context.Context, activeOnly bool) ([]*models.Staff, error) {
	const op = "storage.postgres.ListStaff"

	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY name`
	if activeOnly {
		query = `SELECT ` + staffColumns + ` FROM staff WHERE is_active=TRUE ORDER BY name`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var list []*models.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list = append(list, st)
	}

	return list, rows.Err()
}

func (s *Storage) UpdateStaff(ctx context.Context, st *models.Staff) error {
	const op = "storage.postgres.UpdateStaff"

	res, err := s.db.ExecContext(ctx,
		`UPDATE staff SET name=$1, phone=$2, email=$3, position=$4, is_active=$5, updated_at=now()
		WHERE id=$6`,
		st.Name, st.Phone, st.Email, st.Position, st.IsActive, st.ID,
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

// DeactivateStaff soft-deletes: staff rows are never removed.
func (s *Storage) DeactivateStaff(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeactivateStaff"

	res, err := s.db.ExecContext(ctx,
		`UPDATE staff SET is_active=FALSE, updated_at=now() WHERE id=$1`, id)
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

func (s *Storage) UpdateStaffApproval(ctx context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error {
	const op = "storage.postgres.UpdateStaffApproval"

	res, err := s.db.ExecContext(ctx,
		`UPDATE staff SET approval_status=$1, approved_by=$2, approved_at=$3, rejection_reason=$4, updated_at=now()
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

// #### shift types ####

func (s *Storage) CreateShiftType(ctx context.Context, t *models.ShiftType) (int64, error) {
	const op = "storage.postgres.CreateShiftType"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO shift_types (name, color, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.Name, t.Color, t.StartTime, t.EndTime, t.Description,
	).Scan(&id)
	if err != nil {
		return 0, mapError(op, err)
	}

	return id, nil
}

func (s *Storage) GetShiftType(ctx context.Context, id int64) (*models.ShiftType, error) {
	const op = "storage.postgres.GetShiftType"

	var t models.ShiftType
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, start_time, end_time, description FROM shift_types WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.StartTime, &t.EndTime, &t.Description)
	if err != nil {
		return nil, mapError(op, err)
	}

	return &t, nil
}

func (s *Storage) ListShiftTypes(ctx context.Context) ([]*models.ShiftType, error) {
	const op = "storage.postgres.ListShiftTypes"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, start_time, end_time, description FROM shift_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var list []*models.ShiftType
	for rows.Next() {
		var t models.ShiftType
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.StartTime, &t.EndTime, &t.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list = append(list, &t)
	}

	return list, rows.Err()
}

func (s *Storage) UpdateShiftType(ctx context.Context, t *models.ShiftType) error {
	const op = "storage.postgres.UpdateShiftType"

	res, err := s.db.ExecContext(ctx,
		`UPDATE shift_types SET name=$1, color=$2, start_time=$3, end_time=$4, description=$5
		WHERE id=$6`,
		t.Name, t.Color, t.StartTime, t.EndTime, t.Description, t.ID,
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

// DeleteShiftType removes the type; shifts referencing it keep running with
// a NULL type (ON DELETE SET NULL).
func (s *Storage) DeleteShiftType(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteShiftType"

	res, err := s.db.ExecContext(ctx, `DELETE FROM shift_types WHERE id=$1`, id)
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
