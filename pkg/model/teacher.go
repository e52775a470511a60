package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type Booking struct {
	Course string
	Module int
}

type Teacher struct {
	Name          string
	Courses       map[string]bool // Courses the teacher is able to teach
	Availability  []Availability  // Availability[module-1] for modules 1..ModulesPerLayer
	CapacityTotal int
	CapacityLeft  int
	Bookings      []Booking

	modules map[int]bool // Modules already taken, independently of the layer
}

func NewTeacher(name string, courses []string, availability []Availability, capacity int) (*Teacher, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: teacher name must not be empty", ErrInvalidInput)
	} else if capacity < 0 {
		return nil, fmt.Errorf("%w: teacher \"%v\" has negative capacity %v", ErrInvalidInput, name, capacity)
	} else if len(availability) != ModulesPerLayer {
		return nil, fmt.Errorf("%w: teacher \"%v\" must declare availability for %v modules, got %v", ErrInvalidInput, name, ModulesPerLayer, len(availability))
	}

	if lo.SomeBy(availability, func(value Availability) bool {
		return value != Forbidden && value != Soft && value != Preferred
	}) {
		return nil, fmt.Errorf("%w: teacher \"%v\" has availability values outside {-1, 0, 1}: %v", ErrInvalidInput, name, availability)
	}

	teacher := &Teacher{
		Name:          name,
		Courses:       make(map[string]bool, len(courses)),
		Availability:  slices.Clone(availability),
		CapacityTotal: capacity,
		CapacityLeft:  capacity,
		Bookings:      make([]Booking, 0, capacity),
		modules:       make(map[int]bool),
	}
	for _, course := range courses {
		teacher.Courses[course] = true
	}
	return teacher, nil
}

// Placeholder teacher for names referenced by courses but missing from the availability records: unable to teach anything, anywhere
func NewPlaceholderTeacher(name string) *Teacher {
	availability := make([]Availability, ModulesPerLayer)
	for i := range availability {
		availability[i] = Forbidden
	}
	return &Teacher{
		Name:         name,
		Courses:      make(map[string]bool),
		Availability: availability,
		Bookings:     make([]Booking, 0),
		modules:      make(map[int]bool),
	}
}

// Checks whether the teacher can teach the course in the module. Under strict mode soft availability counts as unavailable
func (teacher *Teacher) IsAvailable(course string, module int, strict bool) bool {
	if teacher.CapacityLeft < 1 || !ValidModule(module) || teacher.modules[module] {
		return false
	}

	switch teacher.Availability[module-1] {
	case Forbidden:
		return false
	case Soft:
		if strict {
			return false
		}
	}
	return teacher.Courses[course]
}

// Returns the raw availability declared for the module, out-of-range modules are forbidden
func (teacher *Teacher) AvailabilityAt(module int) Availability {
	if !ValidModule(module) {
		return Forbidden
	}
	return teacher.Availability[module-1]
}

// Lower is better: 0 for preferred modules and 1 for soft ones. Must not be queried for forbidden modules
func (teacher *Teacher) AvailabilityScore(module int) (int, error) {
	switch teacher.AvailabilityAt(module) {
	case Preferred:
		return 0, nil
	case Soft:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: teacher \"%v\", module %v", ErrForbiddenModule, teacher.Name, module)
}

// Specialization is the number of courses the teacher is able to teach (fewer means more specialized)
func (teacher *Teacher) Specialization() int {
	return len(teacher.Courses)
}

// Books the teacher for the course in the module, re-validating availability under soft mode. State is untouched on failure
func (teacher *Teacher) Book(course string, module int) bool {
	if !teacher.IsAvailable(course, module, false) {
		return false
	}
	teacher.Bookings = append(teacher.Bookings, Booking{Course: course, Module: module})
	teacher.modules[module] = true
	teacher.CapacityLeft--
	return true
}

// Checks whether the teacher already teaches in the module
func (teacher *Teacher) Occupied(module int) bool {
	return teacher.modules[module]
}

// Modules the teacher already teaches in, in ascending order
func (teacher *Teacher) OccupiedModules() []int {
	modules := lo.Keys(teacher.modules)
	slices.Sort(modules)
	return modules
}

func (teacher *Teacher) String() string {
	return fmt.Sprintf("Teacher(name=%v, capacity=%v/%v, modules=%v, courses=%v)",
		teacher.Name,
		teacher.CapacityLeft,
		teacher.CapacityTotal,
		teacher.OccupiedModules(),
		lo.Map(teacher.Bookings, func(booking Booking, _ int) string { return booking.Course }),
	)
}
