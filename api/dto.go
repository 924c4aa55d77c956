package api

// Dates are "2006-01-02", times of day are "15:04" unless noted otherwise.

type StaffRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Position string `json:"position,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type StaffResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone,omitempty"`
	Email           string  `json:"email,omitempty"`
	Position        string  `json:"position,omitempty"`
	IsActive        bool    `json:"is_active"`
	ApprovalStatus  string  `json:"approval_status"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
}

type ShiftTypeRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description,omitempty"`
}

type ShiftTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description,omitempty"`
}

type ShiftRequest struct {
	StaffID     int64  `json:"staff_id"`
	ShiftTypeID *int64 `json:"shift_type_id,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Notes       string `json:"notes,omitempty"`
	CreatedBy   *int64 `json:"created_by,omitempty"`
}

type ShiftResponse struct {
	ID              int64   `json:"id"`
	StaffID         int64   `json:"staff_id"`
	StaffName       string  `json:"staff_name"`
	ShiftTypeID     *int64  `json:"shift_type_id,omitempty"`
	ShiftTypeName   string  `json:"shift_type_name,omitempty"`
	Color           string  `json:"color"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time,omitempty"`
	EndTime         string  `json:"end_time,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	IsReason        bool    `json:"is_reason"`
	Reason          string  `json:"reason,omitempty"`
	ReasonLabel     string  `json:"reason_label,omitempty"`
	ApprovalStatus  string  `json:"approval_status"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
}

type ReasonShiftRequest struct {
	StaffID   int64  `json:"staff_id"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes,omitempty"`
	CreatedBy *int64 `json:"created_by,omitempty"`
}

type BulkShiftRequest struct {
	StaffIDs    []int64 `json:"staff_ids"`
	ShiftTypeID int64   `json:"shift_type_id"`
	Weekdays    []int   `json:"weekdays"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Overwrite   bool    `json:"overwrite"`
	CreatedBy   *int64  `json:"created_by,omitempty"`
}

type TemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type TemplateResponse struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	IsActive    bool                     `json:"is_active"`
	Details     []TemplateDetailResponse `json:"details,omitempty"`
}

type TemplateDetailRequest struct {
	StaffID     int64  `json:"staff_id"`
	ShiftTypeID int64  `json:"shift_type_id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type TemplateDetailResponse struct {
	ID            int64  `json:"id"`
	TemplateID    int64  `json:"template_id"`
	StaffID       int64  `json:"staff_id"`
	StaffName     string `json:"staff_name"`
	ShiftTypeID   int64  `json:"shift_type_id"`
	ShiftTypeName string `json:"shift_type_name"`
	Weekday       int    `json:"weekday"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type TemplateApplyRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Overwrite bool   `json:"overwrite"`
	CreatedBy *int64 `json:"created_by,omitempty"`
}

// Calendar aggregation.

type StaffDayShifts struct {
	Staff  StaffResponse   `json:"staff"`
	Shifts []ShiftResponse `json:"shifts"`
}

type CalendarDay struct {
	Date        string           `json:"date"`
	Weekday     int              `json:"weekday"`
	StaffShifts []StaffDayShifts `json:"staff_shifts"`
}

type CalendarResponse struct {
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Days      []CalendarDay `json:"days"`
}

// Time chart aggregation. Percentages are relative to the visible
// 06:00-24:00 window.

type ChartBar struct {
	ShiftID      int64   `json:"shift_id"`
	StaffID      int64   `json:"staff_id"`
	StaffName    string  `json:"staff_name"`
	Label        string  `json:"label"`
	Color        string  `json:"color"`
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

type ChartDay struct {
	Date    string     `json:"date"`
	Weekday int        `json:"weekday"`
	Bars    []ChartBar `json:"bars"`
}

type ChartStats struct {
	TotalShifts int     `json:"total_shifts"`
	MinPerDay   int     `json:"min_per_day"`
	MaxPerDay   int     `json:"max_per_day"`
	AvgPerDay   float64 `json:"avg_per_day"`
	PeakHour    int     `json:"peak_hour"`
	PeakCount   int     `json:"peak_count"`
}

type ChartResponse struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Days      []ChartDay `json:"days"`
	Stats     ChartStats `json:"stats"`
}

// ShiftEvent is the calendar-widget event object.
type ShiftEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Color       string `json:"color"`
	StaffID     int64  `json:"staff_id"`
	ShiftTypeID *int64 `json:"shift_type_id"`
	IsReason    bool   `json:"is_reason"`
	AllDay      bool   `json:"all_day,omitempty"`
	Editable    bool   `json:"editable"`
}

type ShiftUpdateRequest struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date,omitempty"`
	StaffID   *int64  `json:"staff_id,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

type ShiftDeleteRequest struct {
	ID int64 `json:"id"`
}

// Approval workflow.

type ApproveRequest struct {
	ID         int64  `json:"id"`
	ApproverID *int64 `json:"approver_id,omitempty"`
}

type RejectRequest struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason,omitempty"`
}

type BulkApproveRequest struct {
	Action     string `json:"action"` // "approve" or "reject"
	ApproverID *int64 `json:"approver_id,omitempty"`
}

// Export.

type ExportRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StaffIDs  []int64 `json:"staff_ids,omitempty"`
	Format    string  `json:"format"` // "csv" or "pdf"
}
