package service

import (
	"context"
	"fmt"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

// ApplyTemplate expands a template onto [start_date, end_date]. For every
// day whose weekday matches a detail row, the detail's staff gets a shift
// with the detail's type and times. Existing shifts on (staff, date) are
// skipped or, with overwrite, replaced. Each pair is written individually:
// a failure partway leaves the days already processed in place.
func (s *Service) ApplyTemplate(ctx context.Context, templateID int64, req *api.TemplateApplyRequest) (int, error) {
	const op = "service.ApplyTemplate"

	start, err := parseDate(op, "start_date", req.StartDate)
	if err != nil {
		return 0, err
	}

	end, err := parseDate(op, "end_date", req.EndDate)
	if err != nil {
		return 0, err
	}

	if end.Before(start) {
		return 0, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrValidation)
	}

	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	details, err := s.store.ListTemplateDetails(ctx, templateID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	byWeekday := make(map[int][]*models.ShiftTemplateDetail)
	for _, d := range details {
		byWeekday[d.Weekday] = append(byWeekday[d.Weekday], d)
	}

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, d := range byWeekday[models.Weekday(day)] {
			existing, err := s.store.CountShiftsByStaffDate(ctx, d.StaffID, day)
			if err != nil {
				return created, fmt.Errorf("%s: %w", op, err)
			}

			if existing > 0 {
				if !req.Overwrite {
					continue
				}
				if _, err := s.store.DeleteShiftsByStaffDate(ctx, d.StaffID, day); err != nil {
					return created, fmt.Errorf("%s: %w", op, err)
				}
			}

			startTime := d.StartTime
			endTime := d.EndTime
			shiftTypeID := d.ShiftTypeID

			sh := &models.Shift{
				StaffID:        d.StaffID,
				ShiftTypeID:    &shiftTypeID,
				Date:           day,
				StartTime:      &startTime,
				EndTime:        &endTime,
				ApprovalStatus: models.ApprovalApproved,
				CreatedBy:      req.CreatedBy,
			}

			if _, err := s.store.CreateShift(ctx, sh); err != nil {
				return created, fmt.Errorf("%s: %w", op, err)
			}

			created++
		}
	}

	return created, nil
}

// BulkCreateShifts creates the same shift for a set of staff over a date
// range, limited to the selected weekdays. Validation runs before any write.
func (s *Service) BulkCreateShifts(ctx context.Context, req *api.BulkShiftRequest) (int, error) {
	const op = "service.BulkCreateShifts"

	start, err := parseDate(op, "start_date", req.StartDate)
	if err != nil {
		return 0, err
	}

	end, err := parseDate(op, "end_date", req.EndDate)
	if err != nil {
		return 0, err
	}

	if end.Before(start) {
		return 0, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrValidation)
	}

	if len(req.StaffIDs) == 0 {
		return 0, fmt.Errorf("%s: at least one staff member required: %w", op, response.ErrValidation)
	}

	if len(req.Weekdays) == 0 {
		return 0, fmt.Errorf("%s: at least one weekday required: %w", op, response.ErrValidation)
	}

	startTime, err := parseTimeOfDay(op, "start_time", req.StartTime)
	if err != nil {
		return 0, err
	}

	endTime, err := parseTimeOfDay(op, "end_time", req.EndTime)
	if err != nil {
		return 0, err
	}

	if !endTime.After(startTime) {
		return 0, fmt.Errorf("%s: end_time must be after start_time: %w", op, response.ErrValidation)
	}

	selected := make(map[int]struct{}, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return 0, fmt.Errorf("%s: weekday %d out of range: %w", op, wd, response.ErrValidation)
		}
		selected[wd] = struct{}{}
	}

	if _, err := s.store.GetShiftType(ctx, req.ShiftTypeID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	created := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if _, ok := selected[models.Weekday(day)]; !ok {
			continue
		}

		for _, staffID := range req.StaffIDs {
			existing, err := s.store.CountShiftsByStaffDate(ctx, staffID, day)
			if err != nil {
				return created, fmt.Errorf("%s: %w", op, err)
			}

			if existing > 0 {
				if !req.Overwrite {
					continue
				}
				if _, err := s.store.DeleteShiftsByStaffDate(ctx, staffID, day); err != nil {
					return created, fmt.Errorf("%s: %w", op, err)
				}
			}

			st := startTime
			et := endTime
			shiftTypeID := req.ShiftTypeID

			sh := &models.Shift{
				StaffID:        staffID,
				ShiftTypeID:    &shiftTypeID,
				Date:           day,
				StartTime:      &st,
				EndTime:        &et,
				ApprovalStatus: models.ApprovalApproved,
				CreatedBy:      req.CreatedBy,
			}

			if _, err := s.store.CreateShift(ctx, sh); err != nil {
				return created, fmt.Errorf("%s: %w", op, err)
			}

			created++
		}
	}

	return created, nil
}
