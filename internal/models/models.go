package models

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type DeletionReason string

const (
	ReasonPublicHoliday DeletionReason = "public_holiday"
	ReasonPaidLeave     DeletionReason = "paid_leave"
	ReasonPaidLeaveAM   DeletionReason = "paid_leave_am"
	ReasonPaidLeavePM   DeletionReason = "paid_leave_pm"
	ReasonAbsenteeism   DeletionReason = "absenteeism"
	ReasonOther         DeletionReason = "other"
)

// DeletionReasonLabels maps absence reasons to the labels shown on the
// calendar and in exports.
var DeletionReasonLabels = map[DeletionReason]string{
	ReasonPublicHoliday: "公休",
	ReasonPaidLeave:     "有給休暇",
	ReasonPaidLeaveAM:   "有給休暇(午前)",
	ReasonPaidLeavePM:   "有給休暇(午後)",
	ReasonAbsenteeism:   "欠勤",
	ReasonOther:         "その他",
}

func ValidDeletionReason(r DeletionReason) bool {
	_, ok := DeletionReasonLabels[r]
	return ok
}

const DefaultShiftColor = "#3498db"

type Staff struct {
	ID              int64          `db:"id"`
	UserID          *int64         `db:"user_id"`
	Name            string         `db:"name"`
	Phone           string         `db:"phone"`
	Email           string         `db:"email"`
	Position        string         `db:"position"`
	IsActive        bool           `db:"is_active"`
	ApprovalStatus  ApprovalStatus `db:"approval_status"`
	ApprovedAt      *time.Time     `db:"approved_at"`
	ApprovedBy      *int64         `db:"approved_by"`
	RejectionReason string         `db:"rejection_reason"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type ShiftType struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Color       string    `db:"color"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Description string    `db:"description"`
}

// Shift is either a worked assignment (shift type plus times) or a reason
// record marking an absence (IsDeletedWithReason set, type and times null).
type Shift struct {
	ID                  int64           `db:"id"`
	StaffID             int64           `db:"staff_id"`
	StaffName           string          `db:"staff_name"`
	ShiftTypeID         *int64          `db:"shift_type_id"`
	ShiftTypeName       string          `db:"shift_type_name"`
	ShiftTypeColor      string          `db:"shift_type_color"`
	Date                time.Time       `db:"date"`
	StartTime           *time.Time      `db:"start_time"`
	EndTime             *time.Time      `db:"end_time"`
	Notes               string          `db:"notes"`
	IsDeletedWithReason bool            `db:"is_deleted_with_reason"`
	DeletionReason      *DeletionReason `db:"deletion_reason"`
	ApprovalStatus      ApprovalStatus  `db:"approval_status"`
	ApprovedAt          *time.Time      `db:"approved_at"`
	ApprovedBy          *int64          `db:"approved_by"`
	RejectionReason     string          `db:"rejection_reason"`
	CreatedBy           *int64          `db:"created_by"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

type ShiftTemplate struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ShiftTemplateDetail assigns one staff member to one weekday within a
// template. Unique per (template, staff, weekday).
type ShiftTemplateDetail struct {
	ID             int64     `db:"id"`
	TemplateID     int64     `db:"template_id"`
	StaffID        int64     `db:"staff_id"`
	StaffName      string    `db:"staff_name"`
	ShiftTypeID    int64     `db:"shift_type_id"`
	ShiftTypeName  string    `db:"shift_type_name"`
	ShiftTypeColor string    `db:"shift_type_color"`
	Weekday        int       `db:"weekday"`
	StartTime      time.Time `db:"start_time"`
	EndTime        time.Time `db:"end_time"`
}

// Weekday numbering is 0=Monday .. 6=Sunday throughout the schema and API.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayKanji is indexed by the 0=Monday weekday numbering.
var WeekdayKanji = [7]string{"月", "火", "水", "木", "金", "土", "日"}
