package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shift-service/api"
	"shift-service/internal/cache"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

type Service struct {
	store Store
	cache cache.Cache
	cfg   Config
	now   func() time.Time
}

type Config struct {
	ShiftTTL       time.Duration
	StaffTTL       time.Duration
	ExportTitle    string
	ExportFontPath string
}

func NewService(store Store, c cache.Cache, cfg Config) *Service {
	if cfg.ShiftTTL == 0 {
		cfg.ShiftTTL = 10 * time.Minute
	}
	if cfg.StaffTTL == 0 {
		cfg.StaffTTL = 5 * time.Minute
	}

	return &Service{store: store, cache: c, cfg: cfg, now: time.Now}
}

type Store interface {
	// Staff
	CreateStaff(ctx context.Context, st *models.Staff) (int64, error)
	GetStaff(ctx context.Context, id int64) (*models.Staff, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]*models.Staff, error)
	UpdateStaff(ctx context.Context, st *models.Staff) error
	DeactivateStaff(ctx context.Context, id int64) error
	UpdateStaffApproval(ctx context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error

	// Shift types
	CreateShiftType(ctx context.Context, t *models.ShiftType) (int64, error)
	GetShiftType(ctx context.Context, id int64) (*models.ShiftType, error)
	ListShiftTypes(ctx context.Context) ([]*models.ShiftType, error)
	UpdateShiftType(ctx context.Context, t *models.ShiftType) error
	DeleteShiftType(ctx context.Context, id int64) error

	// Shifts
	CreateShift(ctx context.Context, sh *models.Shift) (int64, error)
	GetShift(ctx context.Context, id int64) (*models.Shift, error)
	ListShiftsByRange(ctx context.Context, start, end time.Time) ([]*models.Shift, error)
	ListShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) ([]*models.Shift, error)
	ListPendingShifts(ctx context.Context) ([]*models.Shift, error)
	UpdateShift(ctx context.Context, sh *models.Shift) error
	DeleteShift(ctx context.Context, id int64) error
	DeleteShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) (int64, error)
	CountShiftsByStaffDate(ctx context.Context, staffID int64, date time.Time) (int64, error)
	UpdateShiftApproval(ctx context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error
	BulkUpdatePendingShifts(ctx context.Context, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time) (int64, error)

	// Templates
	CreateTemplate(ctx context.Context, tpl *models.ShiftTemplate) (int64, error)
	GetTemplate(ctx context.Context, id int64) (*models.ShiftTemplate, error)
	ListTemplates(ctx context.Context) ([]*models.ShiftTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *models.ShiftTemplate) error
	DeleteTemplate(ctx context.Context, id int64) error
	CreateTemplateDetail(ctx context.Context, d *models.ShiftTemplateDetail) (int64, error)
	ListTemplateDetails(ctx context.Context, templateID int64) ([]*models.ShiftTemplateDetail, error)
	DeleteTemplateDetail(ctx context.Context, id int64) error
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func parseDate(op, field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid %s: %w", op, field, response.ErrValidation)
	}

	return d, nil
}

func parseTimeOfDay(op, field, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid %s: %w", op, field, response.ErrValidation)
	}

	return t, nil
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(timeLayout)
}

func fmtTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.RFC3339)
	return &s
}

// minutesOfDay ignores the date part; only the clock time matters.
func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// #### staff ####

func toStaffResponse(st *models.Staff) api.StaffResponse {
	return api.StaffResponse{
		ID:              st.ID,
		Name:            st.Name,
		Phone:           st.Phone,
		Email:           st.Email,
		Position:        st.Position,
		IsActive:        st.IsActive,
		ApprovalStatus:  string(st.ApprovalStatus),
		ApprovedAt:      fmtTimestampPtr(st.ApprovedAt),
		ApprovedBy:      st.ApprovedBy,
		RejectionReason: st.RejectionReason,
	}
}

func (s *Service) CreateStaff(ctx context.Context, req *api.StaffRequest) (*api.StaffResponse, error) {
	const op = "service.CreateStaff"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	st := &models.Staff{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Position:       req.Position,
		IsActive:       active,
		ApprovalStatus: models.ApprovalPending,
	}

	id, err := s.store.CreateStaff(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetStaff(ctx, id)
}

func (s *Service) GetStaff(ctx context.Context, id int64) (*api.StaffResponse, error) {
	const op = "service.GetStaff"

	st, err := s.store.GetStaff(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toStaffResponse(st)
	return &resp, nil
}

func (s *Service) ListStaff(ctx context.Context, activeOnly bool) ([]api.StaffResponse, error) {
	const op = "service.ListStaff"

	list, err := s.store.ListStaff(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.StaffResponse, 0, len(list))
	for _, st := range list {
		result = append(result, toStaffResponse(st))
	}

	return result, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id int64, req *api.StaffRequest) (*api.StaffResponse, error) {
	const op = "service.UpdateStaff"

	st, err := s.store.GetStaff(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	st.Name = req.Name
	st.Phone = req.Phone
	st.Email = req.Email
	st.Position = req.Position
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := s.store.UpdateStaff(ctx, st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetStaff(ctx, id)
}

// DeactivateStaff flips the active flag; the record and its shifts stay.
func (s *Service) DeactivateStaff(ctx context.Context, id int64) error {
	const op = "service.DeactivateStaff"

	if err := s.store.DeactivateStaff(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### shift types ####

func toShiftTypeResponse(t *models.ShiftType) api.ShiftTypeResponse {
	return api.ShiftTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Color:       t.Color,
		StartTime:   t.StartTime.Format(timeLayout),
		EndTime:     t.EndTime.Format(timeLayout),
		Description: t.Description,
	}
}

func (s *Service) validateShiftTypeRequest(op string, req *api.ShiftTypeRequest) (start, end time.Time, err error) {
	if req.Name == "" {
		return start, end, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	start, err = parseTimeOfDay(op, "start_time", req.StartTime)
	if err != nil {
		return start, end, err
	}

	end, err = parseTimeOfDay(op, "end_time", req.EndTime)
	if err != nil {
		return start, end, err
	}

	if !end.After(start) {
		return start, end, fmt.Errorf("%s: end_time must be after start_time: %w", op, response.ErrValidation)
	}

	return start, end, nil
}

func (s *Service) CreateShiftType(ctx context.Context, req *api.ShiftTypeRequest) (*api.ShiftTypeResponse, error) {
	const op = "service.CreateShiftType"

	start, end, err := s.validateShiftTypeRequest(op, req)
	if err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = models.DefaultShiftColor
	}

	t := &models.ShiftType{
		Name:        req.Name,
		Color:       color,
		StartTime:   start,
		EndTime:     end,
		Description: req.Description,
	}

	id, err := s.store.CreateShiftType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftType(ctx, id)
}

func (s *Service) GetShiftType(ctx context.Context, id int64) (*api.ShiftTypeResponse, error) {
	const op = "service.GetShiftType"

	t, err := s.store.GetShiftType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toShiftTypeResponse(t)
	return &resp, nil
}

func (s *Service) ListShiftTypes(ctx context.Context) ([]api.ShiftTypeResponse, error) {
	const op = "service.ListShiftTypes"

	list, err := s.store.ListShiftTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.ShiftTypeResponse, 0, len(list))
	for _, t := range list {
		result = append(result, toShiftTypeResponse(t))
	}

	return result, nil
}

func (s *Service) UpdateShiftType(ctx context.Context, id int64, req *api.ShiftTypeRequest) (*api.ShiftTypeResponse, error) {
	const op = "service.UpdateShiftType"

	t, err := s.store.GetShiftType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end, err := s.validateShiftTypeRequest(op, req)
	if err != nil {
		return nil, err
	}

	t.Name = req.Name
	if req.Color != "" {
		t.Color = req.Color
	}
	t.StartTime = start
	t.EndTime = end
	t.Description = req.Description

	if err := s.store.UpdateShiftType(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetShiftType(ctx, id)
}

func (s *Service) DeleteShiftType(ctx context.Context, id int64) error {
	const op = "service.DeleteShiftType"

	if err := s.store.DeleteShiftType(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### templates ####

func toTemplateDetailResponse(d *models.ShiftTemplateDetail) api.TemplateDetailResponse {
	return api.TemplateDetailResponse{
		ID:            d.ID,
		TemplateID:    d.TemplateID,
		StaffID:       d.StaffID,
		StaffName:     d.StaffName,
		ShiftTypeID:   d.ShiftTypeID,
		ShiftTypeName: d.ShiftTypeName,
		Weekday:       d.Weekday,
		StartTime:     d.StartTime.Format(timeLayout),
		EndTime:       d.EndTime.Format(timeLayout),
	}
}

func (s *Service) CreateTemplate(ctx context.Context, req *api.TemplateRequest) (*api.TemplateResponse, error) {
	const op = "service.CreateTemplate"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	tpl := &models.ShiftTemplate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	}

	id, err := s.store.CreateTemplate(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, id)
}

func (s *Service) GetTemplate(ctx context.Context, id int64) (*api.TemplateResponse, error) {
	const op = "service.GetTemplate"

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	details, err := s.store.ListTemplateDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := api.TemplateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		IsActive:    tpl.IsActive,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, toTemplateDetailResponse(d))
	}

	return &resp, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]api.TemplateResponse, error) {
	const op = "service.ListTemplates"

	list, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.TemplateResponse, 0, len(list))
	for _, tpl := range list {
		result = append(result, api.TemplateResponse{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			IsActive:    tpl.IsActive,
		})
	}

	return result, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id int64, req *api.TemplateRequest) (*api.TemplateResponse, error) {
	const op = "service.UpdateTemplate"

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	tpl.Name = req.Name
	tpl.Description = req.Description
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.store.UpdateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, id)
}

func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	const op = "service.DeleteTemplate"

	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) AddTemplateDetail(ctx context.Context, templateID int64, req *api.TemplateDetailRequest) (*api.TemplateResponse, error) {
	const op = "service.AddTemplateDetail"

	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, fmt.Errorf("%s: weekday out of range: %w", op, response.ErrValidation)
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

	d := &models.ShiftTemplateDetail{
		TemplateID:  templateID,
		StaffID:     req.StaffID,
		ShiftTypeID: req.ShiftTypeID,
		Weekday:     req.Weekday,
		StartTime:   start,
		EndTime:     end,
	}

	if _, err := s.store.CreateTemplateDetail(ctx, d); err != nil {
		if errors.Is(err, response.ErrConflict) {
			return nil, fmt.Errorf("%s: detail for this staff and weekday exists: %w", op, response.ErrConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetTemplate(ctx, templateID)
}

func (s *Service) DeleteTemplateDetail(ctx context.Context, id int64) error {
	const op = "service.DeleteTemplateDetail"

	if err := s.store.DeleteTemplateDetail(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
