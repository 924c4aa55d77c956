package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

// fakeStore keeps everything in maps so service logic can be exercised
// without a database.
type fakeStore struct {
	nextID    int64
	staff     map[int64]*models.Staff
	types     map[int64]*models.ShiftType
	shifts    map[int64]*models.Shift
	templates map[int64]*models.ShiftTemplate
	details   map[int64]*models.ShiftTemplateDetail
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		staff:     make(map[int64]*models.Staff),
		types:     make(map[int64]*models.ShiftType),
		shifts:    make(map[int64]*models.Shift),
		templates: make(map[int64]*models.ShiftTemplate),
		details:   make(map[int64]*models.ShiftTemplateDetail),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (f *fakeStore) CreateStaff(_ context.Context, st *models.Staff) (int64, error) {
	cp := *st
	cp.ID = f.id()
	f.staff[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) GetStaff(_ context.Context, id int64) (*models.Staff, error) {
	st, ok := f.staff[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) ListStaff(_ context.Context, activeOnly bool) ([]*models.Staff, error) {
	list := make([]*models.Staff, 0, len(f.staff))
	for _, st := range f.staff {
		if activeOnly && !st.IsActive {
			continue
		}
		cp := *st
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeStore) UpdateStaff(_ context.Context, st *models.Staff) error {
	if _, ok := f.staff[st.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *st
	f.staff[st.ID] = &cp
	return nil
}

func (f *fakeStore) DeactivateStaff(_ context.Context, id int64) error {
	st, ok := f.staff[id]
	if !ok {
		return response.ErrNotFound
	}
	st.IsActive = false
	return nil
}

func (f *fakeStore) UpdateStaffApproval(_ context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error {
	st, ok := f.staff[id]
	if !ok {
		return response.ErrNotFound
	}
	st.ApprovalStatus = status
	st.ApprovedBy = approvedBy
	st.ApprovedAt = approvedAt
	st.RejectionReason = reason
	return nil
}

func (f *fakeStore) CreateShiftType(_ context.Context, t *models.ShiftType) (int64, error) {
	cp := *t
	cp.ID = f.id()
	f.types[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) GetShiftType(_ context.Context, id int64) (*models.ShiftType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListShiftTypes(_ context.Context) ([]*models.ShiftType, error) {
	list := make([]*models.ShiftType, 0, len(f.types))
	for _, t := range f.types {
		cp := *t
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeStore) UpdateShiftType(_ context.Context, t *models.ShiftType) error {
	if _, ok := f.types[t.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *t
	f.types[t.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteShiftType(_ context.Context, id int64) error {
	if _, ok := f.types[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.types, id)
	return nil
}

func (f *fakeStore) fillJoined(sh *models.Shift) {
	if st, ok := f.staff[sh.StaffID]; ok {
		sh.StaffName = st.Name
	}
	if sh.ShiftTypeID != nil {
		if t, ok := f.types[*sh.ShiftTypeID]; ok {
			sh.ShiftTypeName = t.Name
			sh.ShiftTypeColor = t.Color
		}
	}
}

func (f *fakeStore) CreateShift(_ context.Context, sh *models.Shift) (int64, error) {
	cp := *sh
	cp.ID = f.id()
	f.shifts[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) GetShift(_ context.Context, id int64) (*models.Shift, error) {
	sh, ok := f.shifts[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *sh
	f.fillJoined(&cp)
	return &cp, nil
}

func (f *fakeStore) sortedShifts(keep func(*models.Shift) bool) []*models.Shift {
	list := make([]*models.Shift, 0, len(f.shifts))
	for _, sh := range f.shifts {
		if !keep(sh) {
			continue
		}
		cp := *sh
		f.fillJoined(&cp)
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !sameDay(a.Date, b.Date) {
			return a.Date.Before(b.Date)
		}
		switch {
		case a.StartTime == nil && b.StartTime != nil:
			return true
		case a.StartTime != nil && b.StartTime == nil:
			return false
		case a.StartTime != nil && b.StartTime != nil && !a.StartTime.Equal(*b.StartTime):
			return a.StartTime.Before(*b.StartTime)
		}
		return a.ID < b.ID
	})
	return list
}

func (f *fakeStore) ListShiftsByRange(_ context.Context, start, end time.Time) ([]*models.Shift, error) {
	return f.sortedShifts(func(sh *models.Shift) bool {
		return !sh.Date.Before(start) && !sh.Date.After(end)
	}), nil
}

func (f *fakeStore) ListShiftsByStaffDate(_ context.Context, staffID int64, date time.Time) ([]*models.Shift, error) {
	return f.sortedShifts(func(sh *models.Shift) bool {
		return sh.StaffID == staffID && sameDay(sh.Date, date)
	}), nil
}

func (f *fakeStore) ListPendingShifts(_ context.Context) ([]*models.Shift, error) {
	return f.sortedShifts(func(sh *models.Shift) bool {
		return sh.ApprovalStatus == models.ApprovalPending
	}), nil
}

func (f *fakeStore) UpdateShift(_ context.Context, sh *models.Shift) error {
	if _, ok := f.shifts[sh.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *sh
	f.shifts[sh.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteShift(_ context.Context, id int64) error {
	if _, ok := f.shifts[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeStore) DeleteShiftsByStaffDate(_ context.Context, staffID int64, date time.Time) (int64, error) {
	var n int64
	for id, sh := range f.shifts {
		if sh.StaffID == staffID && sameDay(sh.Date, date) {
			delete(f.shifts, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountShiftsByStaffDate(_ context.Context, staffID int64, date time.Time) (int64, error) {
	var n int64
	for _, sh := range f.shifts {
		if sh.StaffID == staffID && sameDay(sh.Date, date) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpdateShiftApproval(_ context.Context, id int64, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time, reason string) error {
	sh, ok := f.shifts[id]
	if !ok {
		return response.ErrNotFound
	}
	sh.ApprovalStatus = status
	sh.ApprovedBy = approvedBy
	sh.ApprovedAt = approvedAt
	sh.RejectionReason = reason
	return nil
}

func (f *fakeStore) BulkUpdatePendingShifts(_ context.Context, status models.ApprovalStatus, approvedBy *int64, approvedAt *time.Time) (int64, error) {
	var n int64
	for _, sh := range f.shifts {
		if sh.ApprovalStatus != models.ApprovalPending {
			continue
		}
		sh.ApprovalStatus = status
		sh.ApprovedBy = approvedBy
		sh.ApprovedAt = approvedAt
		n++
	}
	return n, nil
}

func (f *fakeStore) CreateTemplate(_ context.Context, tpl *models.ShiftTemplate) (int64, error) {
	cp := *tpl
	cp.ID = f.id()
	f.templates[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) GetTemplate(_ context.Context, id int64) (*models.ShiftTemplate, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (f *fakeStore) ListTemplates(_ context.Context) ([]*models.ShiftTemplate, error) {
	list := make([]*models.ShiftTemplate, 0, len(f.templates))
	for _, tpl := range f.templates {
		cp := *tpl
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeStore) UpdateTemplate(_ context.Context, tpl *models.ShiftTemplate) error {
	if _, ok := f.templates[tpl.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *tpl
	f.templates[tpl.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteTemplate(_ context.Context, id int64) error {
	if _, ok := f.templates[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.templates, id)
	for did, d := range f.details {
		if d.TemplateID == id {
			delete(f.details, did)
		}
	}
	return nil
}

func (f *fakeStore) CreateTemplateDetail(_ context.Context, d *models.ShiftTemplateDetail) (int64, error) {
	for _, existing := range f.details {
		if existing.TemplateID == d.TemplateID && existing.StaffID == d.StaffID && existing.Weekday == d.Weekday {
			return 0, response.ErrConflict
		}
	}
	cp := *d
	cp.ID = f.id()
	f.details[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStore) ListTemplateDetails(_ context.Context, templateID int64) ([]*models.ShiftTemplateDetail, error) {
	list := make([]*models.ShiftTemplateDetail, 0)
	for _, d := range f.details {
		if d.TemplateID != templateID {
			continue
		}
		cp := *d
		if st, ok := f.staff[cp.StaffID]; ok {
			cp.StaffName = st.Name
		}
		if t, ok := f.types[cp.ShiftTypeID]; ok {
			cp.ShiftTypeName = t.Name
			cp.ShiftTypeColor = t.Color
		}
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeStore) DeleteTemplateDetail(_ context.Context, id int64) error {
	if _, ok := f.details[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.details, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	return NewService(fs, nil, Config{}), fs
}

func seedStaff(t *testing.T, fs *fakeStore, name string) int64 {
	t.Helper()
	id, err := fs.CreateStaff(context.Background(), &models.Staff{
		Name:           name,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
	})
	require.NoError(t, err)
	return id
}

func seedShiftType(t *testing.T, fs *fakeStore, name, start, end string) int64 {
	t.Helper()
	st, err := time.Parse("15:04", start)
	require.NoError(t, err)
	et, err := time.Parse("15:04", end)
	require.NoError(t, err)
	id, err := fs.CreateShiftType(context.Background(), &models.ShiftType{
		Name:      name,
		Color:     models.DefaultShiftColor,
		StartTime: st,
		EndTime:   et,
	})
	require.NoError(t, err)
	return id
}

func TestCreateStaffRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStaff(context.Background(), &api.StaffRequest{})
	require.ErrorIs(t, err, response.ErrValidation)
}

func TestShiftTypeEndAfterStart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateShiftType(context.Background(), &api.ShiftTypeRequest{
		Name:      "夜勤",
		StartTime: "17:00",
		EndTime:   "09:00",
	})
	require.ErrorIs(t, err, response.ErrValidation)
}

func TestAddTemplateDetailDuplicateWeekday(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	staffID := seedStaff(t, fs, "田中")
	typeID := seedShiftType(t, fs, "早番", "08:00", "16:00")

	tmpl, err := svc.CreateTemplate(ctx, &api.TemplateRequest{Name: "平日"})
	require.NoError(t, err)

	detail := &api.TemplateDetailRequest{
		StaffID:     staffID,
		ShiftTypeID: typeID,
		Weekday:     0,
		StartTime:   "08:00",
		EndTime:     "16:00",
	}

	_, err = svc.AddTemplateDetail(ctx, tmpl.ID, detail)
	require.NoError(t, err)

	_, err = svc.AddTemplateDetail(ctx, tmpl.ID, detail)
	require.ErrorIs(t, err, response.ErrConflict)
}
