package model

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type Course struct {
	Name     string
	Chained  bool // Participates in a prerequisite relationship
	MinLayer int
	Prereqs  map[string]bool
	Teachers map[string]bool // Teachers eligible to teach the course

	// Assignment state, set at most once
	Module   int
	Layer    int
	Teacher  string
	Fixed    bool
	assigned bool
}

func NewCourse(name string, teachers ...string) *Course {
	course := &Course{
		Name:     name,
		Prereqs:  make(map[string]bool),
		Teachers: make(map[string]bool, len(teachers)),
	}
	for _, teacher := range teachers {
		course.Teachers[teacher] = true
	}
	return course
}

// Marks the course as part of a chain with the given minimum layer and prerequisites
func (course *Course) Chain(minLayer int, prereqs ...string) *Course {
	course.Chained = true
	course.MinLayer = minLayer
	for _, prereq := range prereqs {
		course.Prereqs[prereq] = true
	}
	return course
}

func (course *Course) Assigned() bool {
	return course.assigned
}

func (course *Course) PrereqNames() []string {
	return sortedKeys(course.Prereqs)
}

func (course *Course) TeacherNames() []string {
	return sortedKeys(course.Teachers)
}

// Checks whether every prerequisite has been assigned a module. An unknown prerequisite is an error, never false
func (course *Course) PrereqsAssigned(courses Courses) (bool, error) {
	satisfied := true
	for _, name := range course.PrereqNames() {
		prereq, ok := courses[name]
		if !ok {
			return false, fmt.Errorf("%w: prerequisite \"%v\" of course \"%v\"", ErrUnknownCourse, name, course.Name)
		}
		if !prereq.assigned {
			satisfied = false
		}
	}
	return satisfied, nil
}

// Returns the highest module among the assigned prerequisites, 0 when there are none
func (course *Course) LatestPrereqModule(courses Courses) (int, error) {
	latest := 0
	for _, name := range course.PrereqNames() {
		prereq, ok := courses[name]
		if !ok {
			return 0, fmt.Errorf("%w: prerequisite \"%v\" of course \"%v\"", ErrUnknownCourse, name, course.Name)
		} else if !prereq.assigned {
			return 0, fmt.Errorf("prerequisite \"%v\" of course \"%v\" is not assigned", name, course.Name)
		}
		latest = max(latest, prereq.Module)
	}
	return latest, nil
}

// Eligible teachers available for the course in the module, in name order
func (course *Course) AvailableTeachers(module int, teachers Teachers, strict bool) ([]*Teacher, error) {
	available := make([]*Teacher, 0, len(course.Teachers))
	for _, name := range course.TeacherNames() {
		teacher, ok := teachers[name]
		if !ok {
			return nil, fmt.Errorf("%w: teacher \"%v\" of course \"%v\"", ErrUnknownTeacher, name, course.Name)
		}
		if teacher.IsAvailable(course.Name, module, strict) {
			available = append(available, teacher)
		}
	}
	return available, nil
}

func (course *Course) HasTeacherFor(module int, teachers Teachers, strict bool) (bool, error) {
	available, err := course.AvailableTeachers(module, teachers, strict)
	if err != nil {
		return false, err
	}
	return len(available) > 0, nil
}

// Chooses the best available teacher for the module, or "" if none is available.
// Ordering (lower is better): availability score, specialization, negative capacity left and finally name
func (course *Course) BestTeacher(module int, teachers Teachers, strict bool) (string, error) {
	type candidate struct {
		teacher        *Teacher
		score          int
		specialization int
	}

	available, err := course.AvailableTeachers(module, teachers, strict)
	if err != nil {
		return "", err
	}

	candidates := make([]candidate, 0, len(available))
	for _, teacher := range available {
		score, err := teacher.AvailabilityScore(module)
		if err != nil {
			return "", err
		}
		candidates = append(candidates, candidate{teacher, score, teacher.Specialization()})
	}
	if len(candidates) == 0 {
		return "", nil
	}

	best := slices.MinFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.score, b.score),
			cmp.Compare(a.specialization, b.specialization),
			cmp.Compare(b.teacher.CapacityLeft, a.teacher.CapacityLeft),
			cmp.Compare(a.teacher.Name, b.teacher.Name),
		)
	})
	return best.teacher.Name, nil
}

// Checks whether the course can be placed in (module, layer): not yet assigned, layer not below its minimum,
// every prerequisite assigned strictly before and at least one teacher available
func (course *Course) CanOccupy(module, layer int, courses Courses, teachers Teachers, strict bool) (bool, error) {
	if course.assigned || layer < course.MinLayer {
		return false, nil
	}

	satisfied, err := course.PrereqsAssigned(courses)
	if err != nil || !satisfied {
		return false, err
	}

	current := Absolute(layer, module)
	if lo.SomeBy(course.PrereqNames(), func(name string) bool {
		prereq := courses[name]
		return Absolute(prereq.Layer, prereq.Module) >= current
	}) {
		return false, nil
	}

	return course.HasTeacherFor(module, teachers, strict)
}

// Assigns the course to (module, layer) with the best available teacher. Returns false, leaving every state untouched, if the
// course cannot occupy the slot or the teacher refuses the booking
func (course *Course) Occupy(module, layer int, courses Courses, teachers Teachers, strict bool) (bool, error) {
	ok, err := course.CanOccupy(module, layer, courses, teachers, strict)
	if err != nil || !ok {
		return false, err
	}

	chosen, err := course.BestTeacher(module, teachers, strict)
	if err != nil || chosen == "" {
		return false, err
	}

	if !teachers[chosen].Book(course.Name, module) {
		return false, nil
	}

	course.assign(module, layer, chosen, false)
	return true, nil
}

// Records a fixed assignment decided outside the scheduler. The teacher must have been booked already
func (course *Course) AssignFixed(module int, teacher string) error {
	if course.assigned {
		return fmt.Errorf("%w: \"%v\" is in module %v", ErrAssigned, course.Name, course.Module)
	}
	course.assign(module, 0, teacher, true)
	return nil
}

func (course *Course) assign(module, layer int, teacher string, fixed bool) {
	course.Module = module
	course.Layer = layer
	course.Teacher = teacher
	course.Fixed = fixed
	course.assigned = true
}

func (course *Course) String() string {
	if !course.assigned {
		return fmt.Sprintf("Course(name=%v, unassigned)", course.Name)
	}
	return fmt.Sprintf("Course(name=%v, module=%v, layer=%v, teacher=%v)", course.Name, course.Module, course.Layer, course.Teacher)
}

func sortedKeys(set map[string]bool) []string {
	keys := lo.Keys(set)
	slices.Sort(keys)
	return keys
}
