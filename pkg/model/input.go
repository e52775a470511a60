package model

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type RawTeacher struct {
	Name         string
	Capacity     int
	Availability []int
}

type RawCourse struct {
	Name     string
	Teachers []string
}

type RawPrerequisite struct {
	Course   string
	MinLayer int `mapstructure:"min_layer"`
	Prereqs  []string
}

type RawPlacement struct {
	Course  string
	Module  int
	Teacher string
}

type RawInput struct {
	Teachers      []RawTeacher
	Courses       []RawCourse
	Prerequisites []RawPrerequisite
	Celebrities   []RawPlacement
}

// FixedPlacement is a (course, module, teacher) triple decided outside the scheduler
type FixedPlacement struct {
	Course  string
	Module  int
	Teacher string
}

type Input struct {
	Teachers Teachers
	Courses  Courses
	Modules  Modules
	Fixed    []FixedPlacement
}

// Decodes a generic document (e.g. unmarshalled JSON or YAML) into a raw input
func DecodeRawInput(document map[string]any) (RawInput, error) {
	var rawInput RawInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rawInput,
		ErrorUnused: true,
		DecodeHook:  integralFloats,
	})
	if err != nil {
		return RawInput{}, err
	}
	if err := decoder.Decode(document); err != nil {
		return RawInput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rawInput, nil
}

// Rejects fractional numbers (e.g. a JSON capacity of 1.5) bound for integer fields, which mapstructure would truncate
func integralFloats(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value := reflect.ValueOf(data).Float(); value != math.Trunc(value) {
			return nil, fmt.Errorf("expected an integer, got %v", value)
		}
	}
	return data, nil
}

// Builds the scheduling entities from raw records, checking every cross reference between them
func Build(rawInput RawInput, moduleCapacity int) (Input, error) {
	if moduleCapacity < 1 {
		return Input{}, fmt.Errorf("%w: module capacity must be positive: %v", ErrInvalidInput, moduleCapacity)
	}

	//** Invert course->teachers into teacher->courses
	capabilities := make(map[string][]string)
	for _, rawCourse := range rawInput.Courses {
		for _, teacher := range rawCourse.Teachers {
			teacher = strings.TrimSpace(teacher)
			capabilities[teacher] = append(capabilities[teacher], strings.TrimSpace(rawCourse.Name))
		}
	}

	//** Manage teachers
	// A repeated availability row replaces the earlier one
	teachers := make(Teachers, len(rawInput.Teachers))
	for _, rawTeacher := range rawInput.Teachers {
		name := strings.TrimSpace(rawTeacher.Name)
		availability := lo.Map(rawTeacher.Availability, func(value int, _ int) Availability { return Availability(value) })
		teacher, err := NewTeacher(name, lo.Uniq(capabilities[name]), availability, rawTeacher.Capacity)
		if err != nil {
			return Input{}, err
		}
		teachers[name] = teacher
	}

	//** Manage courses
	courses := make(Courses, len(rawInput.Courses))
	for _, rawCourse := range rawInput.Courses {
		name := strings.TrimSpace(rawCourse.Name)
		if name == "" {
			return Input{}, fmt.Errorf("%w: course name must not be empty", ErrInvalidInput)
		}
		course, ok := courses[name]
		if !ok {
			course = NewCourse(name)
			courses[name] = course
		}
		for _, teacherName := range rawCourse.Teachers {
			teacherName = strings.TrimSpace(teacherName)
			if teacherName == "" {
				continue
			}
			// Teachers without availability records can never be booked
			if _, ok := teachers[teacherName]; !ok {
				teachers[teacherName] = NewPlaceholderTeacher(teacherName)
			}
			course.Teachers[teacherName] = true
		}
	}

	//** Manage prerequisites
	for _, rawPrereq := range rawInput.Prerequisites {
		name := strings.TrimSpace(rawPrereq.Course)
		course, ok := courses[name]
		if !ok {
			return Input{}, fmt.Errorf("%w: prerequisites declared for course \"%v\" which has no teachers record", ErrUnknownCourse, name)
		} else if rawPrereq.MinLayer < 0 {
			return Input{}, fmt.Errorf("%w: course \"%v\" has negative minimum layer %v", ErrInvalidInput, name, rawPrereq.MinLayer)
		}

		prereqs := make([]string, 0, len(rawPrereq.Prereqs))
		for _, prereq := range rawPrereq.Prereqs {
			prereq = strings.TrimSpace(prereq)
			if prereq == "" {
				continue
			} else if prereq == name {
				return Input{}, fmt.Errorf("%w: course \"%v\" lists itself as a prerequisite", ErrInvalidInput, name)
			} else if _, ok := courses[prereq]; !ok {
				return Input{}, fmt.Errorf("%w: prerequisite \"%v\" of course \"%v\" has no teachers record", ErrUnknownCourse, prereq, name)
			}
			prereqs = append(prereqs, prereq)
		}
		course.Chain(rawPrereq.MinLayer, prereqs...)
	}

	fixed := lo.Map(rawInput.Celebrities, func(raw RawPlacement, _ int) FixedPlacement {
		return FixedPlacement{
			Course:  strings.TrimSpace(raw.Course),
			Module:  raw.Module,
			Teacher: strings.TrimSpace(raw.Teacher),
		}
	})

	return Input{
		Teachers: teachers,
		Courses:  courses,
		Modules:  NewModules(moduleCapacity),
		Fixed:    fixed,
	}, nil
}
