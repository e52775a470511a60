package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

var ErrMalformed = errors.New("malformed record")

// Files names every CSV input inside the input directory
type Files struct {
	Availability   string `mapstructure:"availability"`
	CourseTeachers string `mapstructure:"course_teachers"`
	Prerequisites  string `mapstructure:"prerequisites"`
	Celebrities    string `mapstructure:"celebrities"`
}

var DefaultFiles = Files{
	Availability:   "teacher_availability.csv",
	CourseTeachers: "course_teacher.csv",
	Prerequisites:  "prereqs_CSDS.csv",
	Celebrities:    "celebrity_courses.csv",
}

// LoadCSV reads the raw input from the CSV files in dir. The celebrity file is optional
func LoadCSV(ctx context.Context, fs afs.Service, dir string, files Files) (model.RawInput, error) {
	var rawInput model.RawInput
	var err error

	if rawInput.Teachers, err = loadAvailability(ctx, fs, url.Join(dir, files.Availability)); err != nil {
		return model.RawInput{}, err
	}
	if rawInput.Courses, err = loadCourseTeachers(ctx, fs, url.Join(dir, files.CourseTeachers)); err != nil {
		return model.RawInput{}, err
	}
	if rawInput.Prerequisites, err = loadPrerequisites(ctx, fs, url.Join(dir, files.Prerequisites)); err != nil {
		return model.RawInput{}, err
	}

	celebrities := url.Join(dir, files.Celebrities)
	exists, err := fs.Exists(ctx, celebrities)
	if err != nil {
		return model.RawInput{}, fmt.Errorf("cannot check %v: %w", celebrities, err)
	}
	if exists {
		if rawInput.Celebrities, err = loadCelebrities(ctx, fs, celebrities); err != nil {
			return model.RawInput{}, err
		}
	}
	return rawInput, nil
}

// Header: name, capacity, M1..M14
func loadAvailability(ctx context.Context, fs afs.Service, location string) ([]model.RawTeacher, error) {
	header, records, err := readRecords(ctx, fs, location, true)
	if err != nil {
		return nil, err
	}

	moduleColumns := lo.Map(lo.Range(model.ModulesPerLayer), func(i int, _ int) string { return fmt.Sprintf("M%d", i+1) })
	columns, err := headerIndex(location, header, append([]string{"name", "capacity"}, moduleColumns...))
	if err != nil {
		return nil, err
	}

	teachers := make([]model.RawTeacher, 0, len(records))
	for _, record := range records {
		if err := record.covers(location, len(header)); err != nil {
			return nil, err
		}
		capacity, err := parseInt(location, record.line, "capacity", record.fields[columns["capacity"]])
		if err != nil {
			return nil, err
		}

		availability := make([]int, model.ModulesPerLayer)
		for j, column := range moduleColumns {
			if availability[j], err = parseInt(location, record.line, column, record.fields[columns[column]]); err != nil {
				return nil, err
			}
		}

		teachers = append(teachers, model.RawTeacher{
			Name:         strings.TrimSpace(record.fields[columns["name"]]),
			Capacity:     capacity,
			Availability: availability,
		})
	}
	return teachers, nil
}

// Rows: course, teacher1, teacher2, ... after a header row
func loadCourseTeachers(ctx context.Context, fs afs.Service, location string) ([]model.RawCourse, error) {
	_, records, err := readRecords(ctx, fs, location, true)
	if err != nil {
		return nil, err
	}

	courses := make([]model.RawCourse, 0, len(records))
	for _, record := range records {
		courses = append(courses, model.RawCourse{
			Name:     strings.TrimSpace(record.fields[0]),
			Teachers: nonEmpty(record.fields[1:]),
		})
	}
	return courses, nil
}

// Rows without header: course, min_layer, prereq1, prereq2, ...
func loadPrerequisites(ctx context.Context, fs afs.Service, location string) ([]model.RawPrerequisite, error) {
	_, records, err := readRecords(ctx, fs, location, false)
	if err != nil {
		return nil, err
	}

	prerequisites := make([]model.RawPrerequisite, 0, len(records))
	for _, record := range records {
		if err := record.covers(location, 2); err != nil {
			return nil, err
		}

		minLayer := 0
		if value := strings.TrimSpace(record.fields[1]); value != "" {
			if minLayer, err = parseInt(location, record.line, "min_layer", value); err != nil {
				return nil, err
			}
		}

		prerequisites = append(prerequisites, model.RawPrerequisite{
			Course:   strings.TrimSpace(record.fields[0]),
			MinLayer: minLayer,
			Prereqs:  nonEmpty(record.fields[2:]),
		})
	}
	return prerequisites, nil
}

// Header: course_name, module, teacher
func loadCelebrities(ctx context.Context, fs afs.Service, location string) ([]model.RawPlacement, error) {
	header, records, err := readRecords(ctx, fs, location, true)
	if err != nil {
		return nil, err
	}

	columns, err := headerIndex(location, header, []string{"course_name", "module", "teacher"})
	if err != nil {
		return nil, err
	}

	placements := make([]model.RawPlacement, 0, len(records))
	for _, record := range records {
		if err := record.covers(location, len(header)); err != nil {
			return nil, err
		}
		module, err := parseInt(location, record.line, "module", record.fields[columns["module"]])
		if err != nil {
			return nil, err
		}
		placements = append(placements, model.RawPlacement{
			Course:  strings.TrimSpace(record.fields[columns["course_name"]]),
			Module:  module,
			Teacher: strings.TrimSpace(record.fields[columns["teacher"]]),
		})
	}
	return placements, nil
}

type record struct {
	line   int
	fields []string
}

func (record record) covers(location string, width int) error {
	if len(record.fields) < width {
		return fmt.Errorf("%w: %v:%v: expected at least %v fields, got %v", ErrMalformed, location, record.line, width, len(record.fields))
	}
	return nil
}

// Reads every non-empty record, splitting off the header when requested
func readRecords(ctx context.Context, fs afs.Service, location string, withHeader bool) (header []string, records []record, err error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read %v: %w", location, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Rows carry a variable number of teachers or prerequisites
	reader.TrimLeadingSpace = true

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("%w: %v: %v", ErrMalformed, location, err)
		}
		if lo.EveryBy(fields, func(field string) bool { return strings.TrimSpace(field) == "" }) {
			continue
		}
		if withHeader && header == nil {
			header = fields
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line, fields})
	}
	return header, records, nil
}

func headerIndex(location string, header []string, required []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, column := range header {
		columns[strings.TrimSpace(column)] = i
	}

	missing := lo.Filter(required, func(column string, _ int) bool {
		_, ok := columns[column]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v: missing columns %v", ErrMalformed, location, missing)
	}
	return columns, nil
}

func parseInt(location string, line int, column, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %v:%v: column %v: %v", ErrMalformed, location, line, column, err)
	}
	return parsed, nil
}

func nonEmpty(fields []string) []string {
	return lo.FilterMap(fields, func(field string, _ int) (string, bool) {
		field = strings.TrimSpace(field)
		return field, field != ""
	})
}
