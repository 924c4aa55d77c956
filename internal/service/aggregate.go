package service

import (
	"context"
	"fmt"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

// The time chart shows a fixed 06:00-24:00 window.
const (
	chartWindowStartMin = 6 * 60
	chartWindowEndMin   = 24 * 60
	chartWindowMinutes  = chartWindowEndMin - chartWindowStartMin
)

// Calendar groups the range's shifts into one bucket per day, one row per
// active staff member. Rows exist even when the staff member has no shift
// that day.
func (s *Service) Calendar(ctx context.Context, startDate, endDate string) (*api.CalendarResponse, error) {
	const op = "service.Calendar"

	start, err := parseDate(op, "start_date", startDate)
	if err != nil {
		return nil, err
	}

	end, err := parseDate(op, "end_date", endDate)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrValidation)
	}

	shifts, err := s.cachedShiftsByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	staff, err := s.cachedActiveStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	type dayStaffKey struct {
		date    string
		staffID int64
	}

	grouped := make(map[dayStaffKey][]api.ShiftResponse)
	for _, sh := range shifts {
		k := dayStaffKey{date: sh.Date.Format(dateLayout), staffID: sh.StaffID}
		grouped[k] = append(grouped[k], toShiftResponse(sh))
	}

	resp := &api.CalendarResponse{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		bucket := api.CalendarDay{
			Date:        date,
			Weekday:     models.Weekday(day),
			StaffShifts: make([]api.StaffDayShifts, 0, len(staff)),
		}

		for _, st := range staff {
			row := api.StaffDayShifts{
				Staff:  toStaffResponse(st),
				Shifts: grouped[dayStaffKey{date: date, staffID: st.ID}],
			}
			if row.Shifts == nil {
				row.Shifts = []api.ShiftResponse{}
			}

			bucket.StaffShifts = append(bucket.StaffShifts, row)
		}

		resp.Days = append(resp.Days, bucket)
	}

	return resp, nil
}

// TimeChart lays shifts out as horizontal bars inside the visible window
// and computes summary statistics over the range.
func (s *Service) TimeChart(ctx context.Context, startDate, endDate string) (*api.ChartResponse, error) {
	const op = "service.TimeChart"

	start, err := parseDate(op, "start_date", startDate)
	if err != nil {
		return nil, err
	}

	end, err := parseDate(op, "end_date", endDate)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrValidation)
	}

	shifts, err := s.cachedShiftsByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byDate := make(map[string][]*models.Shift)
	for _, sh := range shifts {
		date := sh.Date.Format(dateLayout)
		byDate[date] = append(byDate[date], sh)
	}

	resp := &api.ChartResponse{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	}

	dayCounts := make([]int, 0)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		bucket := api.ChartDay{
			Date:    date,
			Weekday: models.Weekday(day),
			Bars:    []api.ChartBar{},
		}

		count := 0
		for _, sh := range byDate[date] {
			if sh.IsDeletedWithReason {
				continue
			}

			count++

			bar, ok := chartBar(sh)
			if !ok {
				continue
			}

			bucket.Bars = append(bucket.Bars, bar)
		}

		dayCounts = append(dayCounts, count)
		resp.Days = append(resp.Days, bucket)
	}

	resp.Stats = chartStats(shifts, dayCounts)

	return resp, nil
}

// chartBar clips the shift to the window and converts it to percentages of
// the window width. Shifts entirely outside the window yield no bar.
func chartBar(sh *models.Shift) (api.ChartBar, bool) {
	if sh.StartTime == nil || sh.EndTime == nil {
		return api.ChartBar{}, false
	}

	startMin := minutesOfDay(*sh.StartTime)
	endMin := minutesOfDay(*sh.EndTime)

	if endMin <= chartWindowStartMin || startMin >= chartWindowEndMin {
		return api.ChartBar{}, false
	}

	if startMin < chartWindowStartMin {
		startMin = chartWindowStartMin
	}
	if endMin > chartWindowEndMin {
		endMin = chartWindowEndMin
	}

	label := sh.ShiftTypeName
	if label == "" {
		label = "未設定"
	}

	color := sh.ShiftTypeColor
	if color == "" {
		color = models.DefaultShiftColor
	}

	return api.ChartBar{
		ShiftID:      sh.ID,
		StaffID:      sh.StaffID,
		StaffName:    sh.StaffName,
		Label:        fmt.Sprintf("%s %s〜%s", label, sh.StartTime.Format(timeLayout), sh.EndTime.Format(timeLayout)),
		Color:        color,
		LeftPercent:  float64(startMin-chartWindowStartMin) / chartWindowMinutes * 100,
		WidthPercent: float64(endMin-startMin) / chartWindowMinutes * 100,
	}, true
}

// chartStats derives totals and the peak hour: every shift increments a
// counter for each whole hour it spans; the busiest hour wins, ties going
// to the earlier hour.
func chartStats(shifts []*models.Shift, dayCounts []int) api.ChartStats {
	stats := api.ChartStats{PeakHour: -1}

	var hourCounts [24]int

	for _, sh := range shifts {
		if sh.IsDeletedWithReason || sh.StartTime == nil || sh.EndTime == nil {
			continue
		}

		stats.TotalShifts++

		for h := sh.StartTime.Hour(); h < sh.EndTime.Hour(); h++ {
			if h >= 0 && h < 24 {
				hourCounts[h]++
			}
		}
	}

	for h, c := range hourCounts {
		if c > stats.PeakCount {
			stats.PeakCount = c
			stats.PeakHour = h
		}
	}

	if len(dayCounts) == 0 {
		return stats
	}

	stats.MinPerDay = dayCounts[0]
	total := 0
	for _, c := range dayCounts {
		if c < stats.MinPerDay {
			stats.MinPerDay = c
		}
		if c > stats.MaxPerDay {
			stats.MaxPerDay = c
		}
		total += c
	}
	stats.AvgPerDay = float64(total) / float64(len(dayCounts))

	return stats
}
