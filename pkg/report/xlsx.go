package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/xuri/excelize/v2"
)

const (
	WorkbookFile = "out_schedule.xlsx"

	scheduleSheet       = "Schedule"
	softViolationsSheet = "Soft violations"
	zeroCapacitySheet   = "Zero capacity"
)

// WriteXLSX writes the report as a single workbook with one sheet per table
func WriteXLSX(ctx context.Context, fs afs.Service, dir string, report Report) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return err
	}
	for _, sheet := range []string{softViolationsSheet, zeroCapacitySheet} {
		if _, err := workbook.NewSheet(sheet); err != nil {
			return err
		}
	}

	headerStyle, err := workbook.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	schedule := [][]any{{"Module", "Course", "Teacher", "Needs confirmation"}}
	for _, row := range report.Assignments {
		confirmation := ""
		if row.NeedsConfirmation {
			confirmation = needsConfirmation
		}
		schedule = append(schedule, []any{row.Module, row.Course, row.Teacher, confirmation})
	}

	softViolations := [][]any{{"Module", "Course", "Teacher"}}
	for _, row := range report.SoftViolations {
		softViolations = append(softViolations, []any{row.Module, row.Course, row.Teacher})
	}

	zeroCapacity := [][]any{{"Teacher", "Occurrences", "Courses"}}
	for _, row := range report.ZeroCapacity {
		zeroCapacity = append(zeroCapacity, []any{row.Teacher, len(row.Courses), strings.Join(row.Courses, ", ")})
	}

	for _, sheet := range []struct {
		name   string
		rows   [][]any
		widths []float64
	}{
		{scheduleSheet, schedule, []float64{10, 28, 22, 40}},
		{softViolationsSheet, softViolations, []float64{10, 28, 22}},
		{zeroCapacitySheet, zeroCapacity, []float64{22, 14, 60}},
	} {
		if err := writeSheet(workbook, sheet.name, sheet.rows, sheet.widths, headerStyle); err != nil {
			return fmt.Errorf("cannot fill sheet %q: %w", sheet.name, err)
		}
	}
	workbook.SetActiveSheet(0)

	var buffer bytes.Buffer
	if err := workbook.Write(&buffer); err != nil {
		return fmt.Errorf("cannot encode workbook: %w", err)
	}

	location := url.Join(dir, WorkbookFile)
	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, &buffer); err != nil {
		return fmt.Errorf("cannot write %v: %w", location, err)
	}
	return nil
}

func writeSheet(workbook *excelize.File, sheet string, rows [][]any, widths []float64, headerStyle int) error {
	for i, width := range widths {
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := workbook.SetColWidth(sheet, column, column, width); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return workbook.SetCellStyle(sheet, "A1", last, headerStyle)
}
