package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
)

const unassignedPreview = 10

// PrintModules renders every module with its courses and teachers
func PrintModules(w io.Writer, modules model.Modules, courses model.Courses) {
	fmt.Fprint(w, "\n=== CURRENT MODULE STATE ===\n\n")

	numbers := lo.Keys(modules)
	slices.Sort(numbers)
	for _, number := range numbers {
		module := modules[number]
		fmt.Fprintf(w, "Module %v\n%v\n", number, strings.Repeat("-", 40))

		if module.Count() == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		for _, name := range module.Courses {
			course := courses[name]
			teacher, tag := "Unassigned", ""
			if course != nil && course.Teacher != "" {
				teacher = course.Teacher
			}
			if course != nil && course.Fixed {
				tag = " [CELEBRITY]"
			}
			fmt.Fprintf(w, "  %v  |  Teacher: %v%v\n", name, teacher, tag)
		}
		fmt.Fprintln(w)
	}
}

// PrintSummary renders module loads, soft usage and the unassigned courses
func PrintSummary(w io.Writer, report Report) {
	fmt.Fprint(w, "\n=== SUMMARY ===\n")
	for _, module := range report.Summary.Modules {
		celebrity := "no"
		if module.Celebrity {
			celebrity = "yes"
		}
		fmt.Fprintf(w, "Module %2d: courses=%2d | celeb=%v | soft(0)=%v\n", module.Number, module.Courses, celebrity, module.Soft)
	}

	unassigned := report.Summary.Unassigned
	fmt.Fprintf(w, "\nTotal assigned: %v\n", report.Summary.Assigned)
	fmt.Fprintf(w, "Total soft(0) assignments: %v\n", report.Summary.Soft)
	fmt.Fprintf(w, "Unassigned courses: %v\n\n", len(unassigned))

	if len(unassigned) > 0 {
		suffix := ""
		if len(unassigned) > unassignedPreview {
			unassigned, suffix = unassigned[:unassignedPreview], " (...)"
		}
		fmt.Fprintf(w, "Unassigned:\n%v%v\n", strings.Join(unassigned, ", "), suffix)
	}
}
