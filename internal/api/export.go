package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
)

var exportHeader = []string{
	"Full name", "Company name", "Boat Name", "Notes", "Check-in", "Check-out", "Flags",
}

var exportColumnWidths = []float64{24, 24, 20, 10, 24, 24, 10}

const exportSheet = "Activity Log"

// exportFilter narrows the rows written by the activity export.
type exportFilter struct {
	Query       string
	FlaggedOnly bool
	Date        domain.Date
	Loc         *time.Location
}

func (f exportFilter) keep(row domain.ActivityRecord) bool {
	if f.FlaggedOnly && !row.Flagged() {
		return false
	}
	if !f.Date.IsZero() {
		if row.CheckIn == nil || domain.DateOf(*row.CheckIn, f.Loc) != f.Date {
			return false
		}
	}
	if f.Query != "" {
		needle := strings.ToLower(f.Query)
		haystack := strings.ToLower(row.PersonName + "\n" + row.CompanyName + "\n" + row.BoatName)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func exportRecord(row domain.ActivityRecord, loc *time.Location) []string {
	flags := "OK"
	if row.Flagged() {
		flags = "FLAGGED"
	}
	return []string{
		row.PersonName,
		row.CompanyName,
		row.BoatName,
		"-",
		formatLocal(row.CheckIn, loc),
		formatLocal(row.CheckOut, loc),
		flags,
	}
}

func (h *Handler) exportActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	q := newQueryReader(r)
	params := exportParams{
		Format:  strings.ToLower(q.String("format")),
		Query:   q.String("q"),
		Flagged: q.Bool("flagged"),
		Date:    q.String("date"),
	}
	if err := q.Validate(params); err != nil {
		respondError(w, r, err)
		return
	}

	loc := h.service.Zone(tenantID)
	filter := exportFilter{Query: params.Query, FlaggedOnly: params.Flagged, Loc: loc}
	if params.Date != "" {
		date, err := domain.ParseDate(params.Date)
		if err != nil {
			respondError(w, r, domain.NewValidationError("date", err.Error()))
			return
		}
		filter.Date = date
	}

	rows, err := h.service.ListActivity(r.Context(), tenantID, domain.MaxActivityLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if filter.keep(row) {
			records = append(records, exportRecord(row, loc))
		}
	}

	stamp := time.Now().In(loc).Format("2006-01-02")
	switch params.Format {
	case "xlsx":
		body, err := activityWorkbook(records)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("activity-log-%s.xlsx", stamp), body)
	default:
		body, err := activityCSV(records)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeAttachment(w, "text/csv; charset=utf-8", fmt.Sprintf("activity-log-%s.csv", stamp), body)
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func activityCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := cw.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func activityWorkbook(records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := setRow(f, 1, exportHeader); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	for i, width := range exportColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, record := range records {
		if err := setRow(f, i+2, record); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
