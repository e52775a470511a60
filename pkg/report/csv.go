package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

const (
	ScheduleFile       = "out_schedule.csv"
	SoftViolationsFile = "out_soft_violations.csv"
	ZeroCapacityFile   = "teachers_capacity_zero.csv"

	needsConfirmation = "Used 0 availability, needs confirmation"
)

// WriteCSV writes the schedule, the soft violations and the zero-capacity diagnostic into dir
func WriteCSV(ctx context.Context, fs afs.Service, dir string, report Report) error {
	schedule := [][]string{{"module", "course", "teacher", "needs confirmation"}}
	for _, row := range report.Assignments {
		confirmation := ""
		if row.NeedsConfirmation {
			confirmation = needsConfirmation
		}
		schedule = append(schedule, []string{strconv.Itoa(row.Module), row.Course, row.Teacher, confirmation})
	}

	softViolations := [][]string{{"module", "course", "teacher"}}
	for _, row := range report.SoftViolations {
		softViolations = append(softViolations, []string{strconv.Itoa(row.Module), row.Course, row.Teacher})
	}

	zeroCapacity := [][]string{{"teacher", "occurrences", "courses..."}}
	for _, row := range report.ZeroCapacity {
		zeroCapacity = append(zeroCapacity, append([]string{row.Teacher, strconv.Itoa(len(row.Courses))}, row.Courses...))
	}

	for _, output := range []struct {
		name    string
		records [][]string
	}{
		{ScheduleFile, schedule},
		{SoftViolationsFile, softViolations},
		{ZeroCapacityFile, zeroCapacity},
	} {
		if err := writeRecords(ctx, fs, url.Join(dir, output.name), output.records); err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(ctx context.Context, fs afs.Service, location string, records [][]string) error {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("cannot encode %v: %w", location, err)
	}

	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, &buffer); err != nil {
		return fmt.Errorf("cannot write %v: %w", location, err)
	}
	return nil
}
