package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"shift-service/api"
	"shift-service/internal/models"
	"shift-service/pkg/response"
)

type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Export renders the staff/date grid for the range as CSV or PDF. Both
// formats walk the same cross-product; only the rendering differs.
func (s *Service) Export(ctx context.Context, req *api.ExportRequest) (*ExportResult, error) {
	const op = "service.Export"

	start, err := parseDate(op, "start_date", req.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := parseDate(op, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrValidation)
	}

	staff, err := s.exportStaff(ctx, req.StaffIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shifts, err := s.store.ListShiftsByRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dates := make([]time.Time, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}

	cells := buildGrid(staff, dates, shifts)

	switch req.Format {
	case "csv":
		data, err := renderCSV(staff, dates, cells)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return &ExportResult{
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("shifts_%s_%s.csv", start.Format("20060102"), end.Format("20060102")),
			Data:        data,
		}, nil
	case "pdf":
		data, err := s.renderPDF(staff, dates, cells)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return &ExportResult{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("shifts_%s_%s.pdf", start.Format("20060102"), end.Format("20060102")),
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%s: unknown format %q: %w", op, req.Format, response.ErrValidation)
	}
}

// exportStaff resolves the requested subset, defaulting to all active staff.
func (s *Service) exportStaff(ctx context.Context, ids []int64) ([]*models.Staff, error) {
	if len(ids) == 0 {
		return s.store.ListStaff(ctx, true)
	}

	list := make([]*models.Staff, 0, len(ids))
	for _, id := range ids {
		st, err := s.store.GetStaff(ctx, id)
		if err != nil {
			return nil, err
		}

		list = append(list, st)
	}

	return list, nil
}

// buildGrid assembles per (staff, date) cell text: newline-joined shift
// entries, or the absence label for reason records.
func buildGrid(staff []*models.Staff, dates []time.Time, shifts []*models.Shift) map[int64]map[string]string {
	type key struct {
		staffID int64
		date    string
	}

	lines := make(map[key][]string)
	for _, sh := range shifts {
		k := key{staffID: sh.StaffID, date: sh.Date.Format(dateLayout)}
		lines[k] = append(lines[k], cellText(sh))
	}

	grid := make(map[int64]map[string]string, len(staff))
	for _, st := range staff {
		row := make(map[string]string, len(dates))
		for _, d := range dates {
			date := d.Format(dateLayout)
			row[date] = strings.Join(lines[key{staffID: st.ID, date: date}], "\n")
		}
		grid[st.ID] = row
	}

	return grid
}

func cellText(sh *models.Shift) string {
	if sh.IsDeletedWithReason {
		if sh.DeletionReason != nil {
			return models.DeletionReasonLabels[*sh.DeletionReason]
		}
		return ""
	}

	name := sh.ShiftTypeName
	if name == "" {
		name = "未設定"
	}

	if sh.StartTime == nil || sh.EndTime == nil {
		return name
	}

	return fmt.Sprintf("%s %s〜%s", name, sh.StartTime.Format(timeLayout), sh.EndTime.Format(timeLayout))
}

// dateLabel is YYYY/MM/DD with the weekday kanji, e.g. 2024/01/01(月).
func dateLabel(d time.Time) string {
	return fmt.Sprintf("%s(%s)", d.Format("2006/01/02"), models.WeekdayKanji[models.Weekday(d)])
}

// renderCSV writes the grid UTF-8 with a BOM so spreadsheet tools pick the
// encoding up correctly.
func renderCSV(staff []*models.Staff, dates []time.Time, grid map[int64]map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(dates)+1)
	header = append(header, "スタッフ名")
	for _, d := range dates {
		header = append(header, dateLabel(d))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, st := range staff {
		row := make([]string, 0, len(dates)+1)
		row = append(row, st.Name)
		for _, d := range dates {
			row = append(row, grid[st.ID][d.Format(dateLayout)])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// renderPDF draws the same grid on A4 landscape pages. A UTF-8 font path
// must be configured for Japanese labels; without one the built-in font is
// used and non-ASCII text will not render.
func (s *Service) renderPDF(staff []*models.Staff, dates []time.Time, grid map[int64]map[string]string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")

	font := "Arial"
	if s.cfg.ExportFontPath != "" {
		font = "custom"
		pdf.AddUTF8Font(font, "", s.cfg.ExportFontPath)
	}

	pdf.SetFont(font, "", 9)
	pdf.AddPage()

	title := s.cfg.ExportTitle
	if title == "" {
		title = "Shift Schedule"
	}
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	nameW := 35.0
	colW := (usable - nameW) / float64(len(dates))
	rowH := 12.0

	drawHeader := func() {
		pdf.CellFormat(nameW, rowH, "Staff", "1", 0, "C", false, 0, "")
		for _, d := range dates {
			pdf.CellFormat(colW, rowH, dateLabel(d), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	drawHeader()

	for _, st := range staff {
		_, pageH := pdf.GetPageSize()
		if pdf.GetY()+rowH > pageH-15 {
			pdf.AddPage()
			drawHeader()
		}

		pdf.CellFormat(nameW, rowH, st.Name, "1", 0, "L", false, 0, "")
		for _, d := range dates {
			cell := grid[st.ID][d.Format(dateLayout)]
			// Multi-shift cells collapse to one line per row height.
			cell = strings.ReplaceAll(cell, "\n", " / ")
			pdf.CellFormat(colW, rowH, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
