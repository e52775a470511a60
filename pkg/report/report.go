package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
)

// Row is one assigned course
type Row struct {
	Module            int
	Course            string
	Teacher           string
	NeedsConfirmation bool // The teacher only declared soft availability for the module
}

// ZeroCapacityRow lists the courses naming a teacher who has no capacity at all
type ZeroCapacityRow struct {
	Teacher string
	Courses []string
}

type ModuleSummary struct {
	Number    int
	Courses   int
	Celebrity bool
	Soft      int
}

type Summary struct {
	Assigned   int
	Soft       int
	Unassigned []string
	Modules    []ModuleSummary
}

type Report struct {
	Assignments    []Row
	SoftViolations []Row
	ZeroCapacity   []ZeroCapacityRow
	Summary        Summary
}

func Build(teachers model.Teachers, courses model.Courses, modules model.Modules) Report {
	report := Report{
		Assignments:    make([]Row, 0, len(courses)),
		SoftViolations: make([]Row, 0),
	}

	//** Assignments and soft violations
	for _, course := range courses {
		if !course.Assigned() {
			continue
		}
		soft := false
		if teacher, ok := teachers[course.Teacher]; ok {
			soft = teacher.AvailabilityAt(course.Module) == model.Soft
		}
		row := Row{Module: course.Module, Course: course.Name, Teacher: course.Teacher, NeedsConfirmation: soft}
		report.Assignments = append(report.Assignments, row)
		if soft {
			report.SoftViolations = append(report.SoftViolations, row)
		}
	}
	slices.SortFunc(report.Assignments, compareRows)
	slices.SortFunc(report.SoftViolations, compareRows)

	report.ZeroCapacity = zeroCapacity(teachers, courses)

	//** Summary
	numbers := lo.Keys(modules)
	slices.Sort(numbers)
	for _, number := range numbers {
		module := modules[number]
		softHere := lo.CountBy(module.Courses, func(name string) bool {
			course, ok := courses[name]
			if !ok {
				return false
			}
			teacher, ok := teachers[course.Teacher]
			return ok && teacher.AvailabilityAt(number) == model.Soft
		})

		report.Summary.Assigned += module.Count()
		report.Summary.Soft += softHere
		report.Summary.Modules = append(report.Summary.Modules, ModuleSummary{
			Number:    number,
			Courses:   module.Count(),
			Celebrity: module.HasCelebrity,
			Soft:      softHere,
		})
	}

	report.Summary.Unassigned = lo.FilterMap(lo.Values(courses), func(course *model.Course, _ int) (string, bool) {
		return course.Name, !course.Assigned()
	})
	slices.Sort(report.Summary.Unassigned)

	return report
}

// Teachers with a total capacity of zero that still appear among some course's teachers, a data-quality signal
func zeroCapacity(teachers model.Teachers, courses model.Courses) []ZeroCapacityRow {
	rows := make([]ZeroCapacityRow, 0)
	for name, teacher := range teachers {
		if teacher.CapacityTotal != 0 {
			continue
		}

		matching := lo.FilterMap(lo.Values(courses), func(course *model.Course, _ int) (string, bool) {
			return course.Name, course.Teachers[name]
		})
		if len(matching) == 0 {
			continue
		}
		slices.Sort(matching)
		rows = append(rows, ZeroCapacityRow{Teacher: name, Courses: matching})
	}

	slices.SortFunc(rows, func(a, b ZeroCapacityRow) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Teacher), strings.ToLower(b.Teacher)),
			cmp.Compare(a.Teacher, b.Teacher),
		)
	})
	return rows
}

func compareRows(a, b Row) int {
	return cmp.Or(
		cmp.Compare(a.Module, b.Module),
		cmp.Compare(a.Course, b.Course),
		cmp.Compare(a.Teacher, b.Teacher),
	)
}
