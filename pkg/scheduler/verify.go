package scheduler

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
)

// Verify checks the scheduling invariants against the current state and reports every violation found
func (scheduler *Scheduler) Verify() error {
	violations := make([]error, 0)
	violate := func(format string, args ...any) {
		violations = append(violations, fmt.Errorf("%w: %v", ErrInvariant, fmt.Sprintf(format, args...)))
	}

	//** Teachers
	teachers := lo.Values(scheduler.teachers)
	slices.SortFunc(teachers, func(a, b *model.Teacher) int { return cmp.Compare(a.Name, b.Name) })
	for _, teacher := range teachers {
		// Check that:
		// - Capacity left lies within [0, total] and matches the bookings
		// - A teacher books each module at most once and every booking is tracked as occupied
		if teacher.CapacityLeft < 0 || teacher.CapacityLeft > teacher.CapacityTotal {
			violate("teacher \"%v\" has capacity %v/%v", teacher.Name, teacher.CapacityLeft, teacher.CapacityTotal)
		}
		if teacher.CapacityTotal-teacher.CapacityLeft != len(teacher.Bookings) {
			violate("teacher \"%v\" has %v bookings but consumed %v capacity", teacher.Name, len(teacher.Bookings), teacher.CapacityTotal-teacher.CapacityLeft)
		}
		booked := lo.Map(teacher.Bookings, func(booking model.Booking, _ int) int { return booking.Module })
		if duplicates := lo.FindDuplicates(booked); len(duplicates) > 0 {
			violate("teacher \"%v\" is booked more than once in modules %v", teacher.Name, duplicates)
		}
		if len(teacher.OccupiedModules()) != len(teacher.Bookings) {
			violate("teacher \"%v\" occupies %v modules but holds %v bookings", teacher.Name, len(teacher.OccupiedModules()), len(teacher.Bookings))
		}
	}

	//** Modules
	for number := 1; number <= model.ModulesPerLayer; number++ {
		module := scheduler.modules[number]
		if module.Count() > module.Capacity {
			violate("module %v holds %v courses over a capacity of %v", number, module.Count(), module.Capacity)
		}
		// A chained celebrity may keep its module, no other chain course may join it
		chainedGuests := lo.CountBy(module.Courses, func(name string) bool {
			course, ok := scheduler.courses[name]
			return ok && course.Chained && !course.Fixed
		})
		if module.HasCelebrity && chainedGuests > 0 {
			violate("module %v holds both a celebrity and a chain course", number)
		}
		for layer, count := range module.ChainLayers {
			if count > 1 {
				violate("module %v holds %v chain courses in layer %v", number, count, layer)
			}
		}
		if duplicates := lo.FindDuplicates(module.Courses); len(duplicates) > 0 {
			violate("module %v holds courses %v more than once", number, duplicates)
		}
	}

	//** Courses
	for _, course := range scheduler.sortedCourses() {
		if !course.Assigned() {
			continue
		}

		module := scheduler.modules[course.Module]
		if module == nil || !slices.Contains(module.Courses, course.Name) {
			violate("course \"%v\" is assigned to module %v but not placed there", course.Name, course.Module)
		}
		teacher := scheduler.teachers[course.Teacher]
		if teacher == nil || !slices.Contains(teacher.Bookings, model.Booking{Course: course.Name, Module: course.Module}) {
			violate("course \"%v\" has no booking for teacher \"%v\" in module %v", course.Name, course.Teacher, course.Module)
		}

		if !course.Chained {
			continue
		}
		current := model.Absolute(course.Layer, course.Module)
		for _, name := range course.PrereqNames() {
			prereq := scheduler.courses[name]
			if !prereq.Assigned() {
				violate("course \"%v\" is assigned before its prerequisite \"%v\"", course.Name, name)
			} else if model.Absolute(prereq.Layer, prereq.Module) >= current {
				violate("prerequisite \"%v\" (layer %v, module %v) does not precede \"%v\" (layer %v, module %v)", name, prereq.Layer, prereq.Module, course.Name, course.Layer, course.Module)
			}
		}
	}

	return errors.Join(violations...)
}
