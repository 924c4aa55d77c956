package service

import (
	"context"
	"fmt"
	"time"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

func toShiftResponse(sh *models.Shift) api.ShiftResponse {
	resp := api.ShiftResponse{
		ID:              sh.ID,
		StaffID:         sh.StaffID,
		StaffName:       sh.StaffName,
		ShiftTypeID:     sh.ShiftTypeID,
		ShiftTypeName:   sh.ShiftTypeName,
		Color:           sh.ShiftTypeColor,
		Date:            sh.Date.Format(dateLayout),
		StartTime:       fmtTimePtr(sh.StartTime),
		EndTime:         fmtTimePtr(sh.EndTime),
		Notes:           sh.Notes,
		IsReason:        sh.IsDeletedWithReason,
		ApprovalStatus:  string(sh.ApprovalStatus),
		ApprovedAt:      fmtTimestampPtr(sh.ApprovedAt),
		ApprovedBy:      sh.ApprovedBy,
		RejectionReason: sh.RejectionReason,
	}

	if resp.Color == "" {
		resp.Color = models.DefaultShiftColor
	}

	if sh.IsDeletedWithReason && sh.DeletionReason != nil {
		resp.Reason = string(*sh.DeletionReason)
		resp.ReasonLabel = models.DeletionReasonLabels[*sh.DeletionReason]
	}

	return resp
}

func (s *Service) CreateShift(ctx context.Context, req *api.ShiftRequest) (*api.ShiftResponse, error) {
	const op = "service.CreateShift"

	date, err := parseDate(op, "date", req.Date)
	if err != nil {
		return nil, err
	}

	start, err := parseTimeOfDay(op, "start_time", req.StartTime)
	if err != nil {
		return nil, err
	}

	end, err := parseTimeOfDay(op, "end_time", req.EndTime)
	if err != nil {
		return nil, err
	}

	if !end.After(start) {
		return nil, fmt.Errorf("%s: end_time must be after start_time: %w", op, response.ErrValidation)
	}

	if _, err := s.store.GetStaff(ctx, req.StaffID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sh := &models.Shift{
		StaffID:     req.StaffID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		StartTime:   &start,
		EndTime:     &end,
		Notes:       req.Notes,
		// Admin-created shifts land approved.
		ApprovalStatus: models.ApprovalApproved,
		CreatedBy:      req.CreatedBy,
	}

	id, err := s.store.CreateShift(ctx, sh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, id)
}

// CreateStaffShift is the staff self-service path: the shift starts pending
// and waits for an administrator decision.
func (s *Service) CreateStaffShift(ctx context.Context, req *api.ShiftRequest) (*api.ShiftResponse, error) {
	const op = "service.CreateStaffShift"

	resp, err := s.CreateShift(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateShiftApproval(ctx, resp.ID, models.ApprovalPending, nil, nil, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, resp.ID)
}

func (s *Service) GetShiftByID(ctx context.Context, id int64) (*api.ShiftResponse, error) {
	const op = "service.GetShiftByID"

	sh, err := s.store.GetShift(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toShiftResponse(sh)
	return &resp, nil
}

func (s *Service) UpdateShift(ctx context.Context, id int64, req *api.ShiftRequest) (*api.ShiftResponse, error) {
	const op = "service.UpdateShift"

	sh, err := s.store.GetShift(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	date, err := parseDate(op, "date", req.Date)
	if err != nil {
		return nil, err
	}

	start, err := parseTimeOfDay(op, "start_time", req.StartTime)
	if err != nil {
		return nil, err
	}

	end, err := parseTimeOfDay(op, "end_time", req.EndTime)
	if err != nil {
		return nil, err
	}

	if !end.After(start) {
		return nil, fmt.Errorf("%s: end_time must be after start_time: %w", op, response.ErrValidation)
	}

	sh.StaffID = req.StaffID
	sh.ShiftTypeID = req.ShiftTypeID
	sh.Date = date
	sh.StartTime = &start
	sh.EndTime = &end
	sh.Notes = req.Notes

	if err := s.store.UpdateShift(ctx, sh); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, id)
}

func (s *Service) DeleteShift(ctx context.Context, id int64) error {
	const op = "service.DeleteShift"

	if err := s.store.DeleteShift(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateReasonShift registers an absence for (staff, date). Any records
// already on that day are removed first; a reason and a worked shift never
// coexist.
func (s *Service) CreateReasonShift(ctx context.Context, req *api.ReasonShiftRequest) (*api.ShiftResponse, error) {
	const op = "service.CreateReasonShift"

	date, err := parseDate(op, "date", req.Date)
	if err != nil {
		return nil, err
	}

	reason := models.DeletionReason(req.Reason)
	if !models.ValidDeletionReason(reason) {
		return nil, fmt.Errorf("%s: unknown reason %q: %w", op, req.Reason, response.ErrValidation)
	}

	if _, err := s.store.GetStaff(ctx, req.StaffID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.store.DeleteShiftsByStaffDate(ctx, req.StaffID, date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sh := &models.Shift{
		StaffID:             req.StaffID,
		Date:                date,
		Notes:               req.Notes,
		IsDeletedWithReason: true,
		DeletionReason:      &reason,
		ApprovalStatus:      models.ApprovalApproved,
		CreatedBy:           req.CreatedBy,
	}

	id, err := s.store.CreateShift(ctx, sh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, id)
}

// ShiftEvents renders shifts as calendar-widget events. Reason records show
// as all-day entries.
func (s *Service) ShiftEvents(ctx context.Context, startDate, endDate string) ([]api.ShiftEvent, error) {
	const op = "service.ShiftEvents"

	start, err := parseDate(op, "start", startDate)
	if err != nil {
		return nil, err
	}

	end, err := parseDate(op, "end", endDate)
	if err != nil {
		return nil, err
	}

	shifts, err := s.store.ListShiftsByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events := make([]api.ShiftEvent, 0, len(shifts))
	for _, sh := range shifts {
		events = append(events, shiftEvent(sh))
	}

	return events, nil
}

func shiftEvent(sh *models.Shift) api.ShiftEvent {
	date := sh.Date.Format(dateLayout)

	if sh.IsDeletedWithReason {
		label := ""
		if sh.DeletionReason != nil {
			label = models.DeletionReasonLabels[*sh.DeletionReason]
		}

		return api.ShiftEvent{
			ID:       sh.ID,
			Title:    fmt.Sprintf("%s (%s)", sh.StaffName, label),
			Start:    date,
			Color:    "#95a5a6",
			StaffID:  sh.StaffID,
			IsReason: true,
			AllDay:   true,
			Editable: false,
		}
	}

	typeName := sh.ShiftTypeName
	if typeName == "" {
		typeName = "未設定"
	}

	color := sh.ShiftTypeColor
	if color == "" {
		color = models.DefaultShiftColor
	}

	ev := api.ShiftEvent{
		ID:          sh.ID,
		Title:       fmt.Sprintf("%s (%s)", sh.StaffName, typeName),
		Color:       color,
		StaffID:     sh.StaffID,
		ShiftTypeID: sh.ShiftTypeID,
		Editable:    true,
	}

	if sh.StartTime != nil {
		ev.Start = date + "T" + sh.StartTime.Format("15:04:05")
	} else {
		ev.Start = date
		ev.AllDay = true
	}
	if sh.EndTime != nil {
		ev.End = date + "T" + sh.EndTime.Format("15:04:05")
	}

	return ev
}

// MoveShift is the drag-and-drop path: move a shift to another date and,
// optionally, another staff member or time window.
func (s *Service) MoveShift(ctx context.Context, req *api.ShiftUpdateRequest) (*api.ShiftResponse, error) {
	const op = "service.MoveShift"

	if req.ID == 0 {
		return nil, fmt.Errorf("%s: id is required: %w", op, response.ErrValidation)
	}

	sh, err := s.store.GetShift(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Date != "" {
		date, err := parseDate(op, "date", req.Date)
		if err != nil {
			return nil, err
		}
		sh.Date = date
	}

	if req.StaffID != nil {
		if _, err := s.store.GetStaff(ctx, *req.StaffID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sh.StaffID = *req.StaffID
	}

	if req.StartTime != nil {
		start, err := parseTimeOfDay(op, "start_time", *req.StartTime)
		if err != nil {
			return nil, err
		}
		sh.StartTime = &start
	}

	if req.EndTime != nil {
		end, err := parseTimeOfDay(op, "end_time", *req.EndTime)
		if err != nil {
			return nil, err
		}
		sh.EndTime = &end
	}

	if sh.StartTime != nil && sh.EndTime != nil && !sh.EndTime.After(*sh.StartTime) {
		return nil, fmt.Errorf("%s: end_time must be after start_time: %w", op, response.ErrValidation)
	}

	if err := s.store.UpdateShift(ctx, sh); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftByID(ctx, req.ID)
}

// cachedShiftsByRange serves read-heavy aggregation views. Entries expire by
// TTL only; a freshly written shift may take up to ShiftTTL to appear.
func (s *Service) cachedShiftsByRange(ctx context.Context, start, end time.Time) ([]*models.Shift, error) {
	key := fmt.Sprintf("shifts:%s:%s", start.Format(dateLayout), end.Format(dateLayout))

	var list []*models.Shift
	if ok, _ := cacheGetJSON(ctx, s.cache, key, &list); ok {
		return list, nil
	}

	list, err := s.store.ListShiftsByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	_ = cacheSetJSON(ctx, s.cache, key, list, s.cfg.ShiftTTL)

	return list, nil
}

func (s *Service) cachedActiveStaff(ctx context.Context) ([]*models.Staff, error) {
	const key = "staff:active"

	var list []*models.Staff
	if ok, _ := cacheGetJSON(ctx, s.cache, key, &list); ok {
		return list, nil
	}

	list, err := s.store.ListStaff(ctx, true)
	if err != nil {
		return nil, err
	}

	_ = cacheSetJSON(ctx, s.cache, key, list, s.cfg.StaffTTL)

	return list, nil
}
