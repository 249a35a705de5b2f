package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/visitquery"

	"github.com/xuri/excelize/v2"
)

// VisitExportHeader is the fixed column order of CSV and XLSX exports
var VisitExportHeader = []string{
	"ID",
	"Visit Date",
	"Status",
	"Duration (minutes)",
	"Sales Rep",
	"Sales Rep Email",
	"HCP",
	"HCP Area Tag",
	"Territory",
	"Territory Code",
	"Notes",
}

const visitSheetName = "Visits"

// ExportCSV renders every matching visit, in listing order, as CSV with a header row
func (s *VisitService) ExportCSV(ctx context.Context, spec visitquery.FilterSpec) ([]byte, error) {
	visits, err := s.exportVisits(ctx, spec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(VisitExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range visits {
		if err := w.Write(exportRow(&visits[i])); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportXLSX renders the same rows as ExportCSV into a single-sheet workbook
func (s *VisitService) ExportXLSX(ctx context.Context, spec visitquery.FilterSpec) ([]byte, error) {
	visits, err := s.exportVisits(ctx, spec)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(visitSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(VisitExportHeader))
	for i, h := range VisitExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(visitSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(VisitExportHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(visitSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i := range visits {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := xlsxRow(&visits[i])
		if err := f.SetSheetRow(visitSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(visitSheetName, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(visitSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// exportRow flattens a visit into export columns; missing values become empty strings
func exportRow(v *models.Visit) []string {
	row := []string{
		strconv.FormatUint(uint64(v.ID), 10),
		v.VisitDate.String(),
		v.Status,
		strconv.Itoa(v.DurationMinutes),
		"", "", "", "", "", "",
		deref(v.Notes),
	}
	if v.Rep != nil {
		row[4] = v.Rep.Name
		row[5] = deref(v.Rep.Email)
	}
	if v.Hcp != nil {
		row[6] = v.Hcp.Name
		row[7] = v.Hcp.AreaTag
	}
	if v.Territory != nil {
		row[8] = v.Territory.Name
		row[9] = v.Territory.Code
	}
	return row
}

// xlsxRow keeps id and duration numeric so spreadsheets can aggregate them
func xlsxRow(v *models.Visit) []interface{} {
	cols := exportRow(v)
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	row[0] = v.ID
	row[3] = v.DurationMinutes
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
