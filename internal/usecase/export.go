package usecase

import (
	"bytes"
	"fmt"
	"time"

	"careops/internal/data/entity"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Date", "Start", "End", "Service", "Contact", "Email", "Phone", "Status", "Notes",
}

// bookingsWorkbook lays bookings out one per row with times rendered in
// loc.
func bookingsWorkbook(bookings []*entity.BookingDetail, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range exportHeaders {
		if err := f.SetCellValue(exportSheet, cellName(i+1, 1), h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(exportSheet, "A", "C", 12)
	f.SetColWidth(exportSheet, "D", "G", 22)
	f.SetColWidth(exportSheet, "H", "H", 12)
	f.SetColWidth(exportSheet, "I", "I", 40)

	for r, b := range bookings {
		start := b.StartsAt.In(loc)
		row := []any{
			start.Format("2006-01-02"),
			start.Format("15:04"),
			b.EndsAt.In(loc).Format("15:04"),
			b.ServiceName,
			b.ContactName,
			deref(b.ContactEmail),
			deref(b.ContactPhone),
			string(b.Status),
			deref(b.Notes),
		}
		if err := f.SetSheetRow(exportSheet, cellName(1, r+2), &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
