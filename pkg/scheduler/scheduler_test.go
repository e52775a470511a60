package scheduler

import (
	"fmt"
	"slices"
	"testing"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	P = int(model.Preferred)
	S = int(model.Soft)
	F = int(model.Forbidden)
)

// Availability for every module set to value, except for the overridden ones
func availability(value int, overrides map[int]int) []int {
	values := make([]int, model.ModulesPerLayer)
	for i := range values {
		values[i] = value
	}
	for module, override := range overrides {
		values[module-1] = override
	}
	return values
}

func buildInput(t *testing.T, rawInput model.RawInput, moduleCapacity int) model.Input {
	t.Helper()
	input, err := model.Build(rawInput, moduleCapacity)
	require.Nil(t, err)
	return input
}

func newScheduler(t *testing.T, input model.Input, options ...Option) *Scheduler {
	t.Helper()
	scheduler, err := New(input, options...)
	require.Nil(t, err)
	return scheduler
}

// A mid-sized instance mixing celebrities, chains over several layers and plain courses
func mixedRawInput() model.RawInput {
	rawInput := model.RawInput{
		Teachers: []model.RawTeacher{
			{Name: "Alice", Capacity: 6, Availability: availability(P, map[int]int{1: F, 2: S})},
			{Name: "Bob", Capacity: 5, Availability: availability(S, map[int]int{3: P, 4: P, 5: P, 6: P})},
			{Name: "Carol", Capacity: 4, Availability: availability(F, map[int]int{7: P, 8: P, 9: S, 10: S, 11: P})},
			{Name: "Dave", Capacity: 0, Availability: availability(P, nil)},
			{Name: "Erin", Capacity: 8, Availability: availability(P, map[int]int{14: F})},
		},
		Courses: []model.RawCourse{
			{Name: "Intro", Teachers: []string{"Alice", "Erin"}},
			{Name: "Data", Teachers: []string{"Alice", "Bob"}},
			{Name: "Algo", Teachers: []string{"Bob", "Carol"}},
			{Name: "Graphs", Teachers: []string{"Carol", "Erin"}},
			{Name: "Logic", Teachers: []string{"Erin", "Dave"}},
			{Name: "Sets", Teachers: []string{"Alice"}},
			{Name: "Stats", Teachers: []string{"Bob", "Erin"}},
			{Name: "Nets", Teachers: []string{"Carol"}},
			{Name: "Ethics", Teachers: []string{"Dave"}},
		},
		Prerequisites: []model.RawPrerequisite{
			{Course: "Intro"},
			{Course: "Data", Prereqs: []string{"Intro"}},
			{Course: "Algo", MinLayer: 1, Prereqs: []string{"Data"}},
			{Course: "Graphs", Prereqs: []string{"Algo", "Logic"}},
			{Course: "Logic"},
		},
		Celebrities: []model.RawPlacement{
			{Course: "Stats", Module: 4, Teacher: "Bob"},
		},
	}
	return rawInput
}

func TestNew(t *testing.T) {
	t.Run("Missing module", func(t *testing.T) {
		input := buildInput(t, model.RawInput{}, model.DefaultModuleCapacity)
		delete(input.Modules, 3)

		_, err := New(input)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("Unknown prerequisite", func(t *testing.T) {
		input := buildInput(t, model.RawInput{}, model.DefaultModuleCapacity)
		input.Courses["B"] = model.NewCourse("B").Chain(0, "A")

		_, err := New(input)
		assert.ErrorIs(t, err, model.ErrUnknownCourse)
	})

	t.Run("Unknown teacher", func(t *testing.T) {
		input := buildInput(t, model.RawInput{}, model.DefaultModuleCapacity)
		input.Courses["A"] = model.NewCourse("A", "Nobody")

		_, err := New(input)
		assert.ErrorIs(t, err, model.ErrUnknownTeacher)
	})

	t.Run("Negative layers", func(t *testing.T) {
		input := buildInput(t, model.RawInput{}, model.DefaultModuleCapacity)

		_, err := New(input, WithMaxLayers(-1))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestPassOrder(t *testing.T) {
	t.Run("Passes out of order", func(t *testing.T) {
		scheduler := newScheduler(t, buildInput(t, model.RawInput{}, model.DefaultModuleCapacity))

		_, err := scheduler.PlaceChains()
		assert.ErrorIs(t, err, ErrPassOrder)

		_, err = scheduler.Fill()
		assert.ErrorIs(t, err, ErrPassOrder)
		assert.Equal(t, Unstarted, scheduler.Stage())
	})

	t.Run("Passes run once", func(t *testing.T) {
		scheduler := newScheduler(t, buildInput(t, model.RawInput{}, model.DefaultModuleCapacity))

		_, err := scheduler.Run(nil)
		require.Nil(t, err)
		assert.Equal(t, Filled, scheduler.Stage())

		_, err = scheduler.PlaceFixed(nil)
		assert.ErrorIs(t, err, ErrPassOrder)
		_, err = scheduler.Fill()
		assert.ErrorIs(t, err, ErrPassOrder)
	})
}

func TestRun(t *testing.T) {
	//** Arrange
	rawInput := mixedRawInput()
	input := buildInput(t, rawInput, model.DefaultModuleCapacity)
	scheduler := newScheduler(t, input)

	//** Act
	fixed, err := scheduler.PlaceFixed(input.Fixed)
	require.Nil(t, err)
	require.Nil(t, scheduler.Verify())

	chained, err := scheduler.PlaceChains()
	require.Nil(t, err)
	require.Nil(t, scheduler.Verify())

	filled, err := scheduler.Fill()
	require.Nil(t, err)

	//** Assert
	assert.Nil(t, scheduler.Verify())
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 5, chained)
	assert.Equal(t, 2, filled)
	assert.Equal(t, []string{"Ethics"}, scheduler.Unassigned())

	courses := scheduler.Courses()
	assert.True(t, courses["Stats"].Fixed)
	assert.Equal(t, 4, courses["Stats"].Module)
	assert.GreaterOrEqual(t, courses["Algo"].Layer, 1)
	for _, course := range courses {
		if course.Assigned() && course.Chained {
			assert.NotEqual(t, 4, course.Module, "chain course %v placed next to a celebrity", course.Name)
		}
	}

	bound, err := scheduler.CoverageBound()
	assert.Nil(t, err)
	assert.Equal(t, 0, bound)
}

func TestDeterminism(t *testing.T) {
	run := func(reversed bool) map[string]string {
		rawInput := mixedRawInput()
		if reversed {
			slices.Reverse(rawInput.Teachers)
			slices.Reverse(rawInput.Courses)
			slices.Reverse(rawInput.Prerequisites)
			for i := range rawInput.Courses {
				slices.Reverse(rawInput.Courses[i].Teachers)
			}
		}
		input := buildInput(t, rawInput, model.DefaultModuleCapacity)
		scheduler := newScheduler(t, input)
		_, err := scheduler.Run(input.Fixed)
		require.Nil(t, err)

		result := make(map[string]string, len(input.Courses))
		for name, course := range scheduler.Courses() {
			result[name] = course.String()
		}
		return result
	}

	expected := run(false)
	for i := range 10 {
		assert.Equal(t, expected, run(i%2 == 1), fmt.Sprintf("run %v differs", i))
	}
}

func TestRunIds(t *testing.T) {
	input := buildInput(t, model.RawInput{}, model.DefaultModuleCapacity)
	first, second := newScheduler(t, input), newScheduler(t, input)

	outcome, err := first.Run(nil)

	require.Nil(t, err)
	assert.Equal(t, first.RunId(), outcome.RunId)
	assert.NotEqual(t, first.RunId(), second.RunId())
}
