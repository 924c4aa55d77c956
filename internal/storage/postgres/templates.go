package postgres

import (
	"context"
	"fmt"

	"shift-service/internal/models"
	"shift-service/pkg/response"
)

func (s *Storage) CreateTemplate(ctx context.Context, tpl *models.ShiftTemplate) (int64, error) {
	const op = "storage.postgres.CreateTemplate"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO shift_templates (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id`,
		tpl.Name, tpl.Description, tpl.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, mapError(op, err)
	}

	return id, nil
}

func (s *Storage) GetTemplate(ctx context.Context, id int64) (*models.ShiftTemplate, error) {
	const op = "storage.postgres.GetTemplate"

	var tpl models.ShiftTemplate
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		FROM shift_templates WHERE id=$1`, id).
		Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.IsActive, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, mapError(op, err)
	}

	return &tpl, nil
}

func (s *Storage) ListTemplates(ctx context.Context) ([]*models.ShiftTemplate, error) {
	const op = "storage.postgres.ListTemplates"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		FROM shift_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var list []*models.ShiftTemplate
	for rows.Next() {
		var tpl models.ShiftTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.IsActive, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list = append(list, &tpl)
	}

	return list, rows.Err()
}

func (s *Storage) UpdateTemplate(ctx context.Context, tpl *models.ShiftTemplate) error {
	const op = "storage.postgres.UpdateTemplate"

	res, err := s.db.ExecContext(ctx,
		`UPDATE shift_templates SET name=$1, description=$2, is_active=$3, updated_at=now()
		WHERE id=$4`,
		tpl.Name, tpl.Description, tpl.IsActive, tpl.ID,
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

// DeleteTemplate also removes its details (ON DELETE CASCADE). Shifts the
// template produced earlier stay on the calendar.
func (s *Storage) DeleteTemplate(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteTemplate"

	res, err := s.db.ExecContext(ctx, `DELETE FROM shift_templates WHERE id=$1`, id)
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

func (s *Storage) CreateTemplateDetail(ctx context.Context, d *models.ShiftTemplateDetail) (int64, error) {
	const op = "storage.postgres.CreateTemplateDetail"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO shift_template_details (template_id, staff_id, shift_type_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.TemplateID, d.StaffID, d.ShiftTypeID, d.Weekday, d.StartTime, d.EndTime,
	).Scan(&id)
	if err != nil {
		return 0, mapError(op, err)
	}

	return id, nil
}

func (s *Storage) ListTemplateDetails(ctx context.Context, templateID int64) ([]*models.ShiftTemplateDetail, error) {
	const op = "storage.postgres.ListTemplateDetails"

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.template_id, d.staff_id, st.name, d.shift_type_id, t.name, t.color,
			d.weekday, d.start_time, d.end_time
		FROM shift_template_details d
		JOIN staff st ON st.id = d.staff_id
		JOIN shift_types t ON t.id = d.shift_type_id
		WHERE d.template_id=$1
		ORDER BY d.weekday, st.name`, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var list []*models.ShiftTemplateDetail
	for rows.Next() {
		var d models.ShiftTemplateDetail
		err := rows.Scan(
			&d.ID,
			&d.TemplateID,
			&d.StaffID,
			&d.StaffName,
			&d.ShiftTypeID,
			&d.ShiftTypeName,
			&d.ShiftTypeColor,
			&d.Weekday,
			&d.StartTime,
			&d.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		list = append(list, &d)
	}

	return list, rows.Err()
}

func (s *Storage) DeleteTemplateDetail(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteTemplateDetail"

	res, err := s.db.ExecContext(ctx, `DELETE FROM shift_template_details WHERE id=$1`, id)
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
