package scheduler

import (
	"cmp"
	"slices"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type teacherSlot struct {
	teacher string
	index   int // Module number, or capacity unit when modules are relaxed
}

// CoverageBound returns an upper bound on the number of unassigned courses that could still be placed, considering
// teachers alone (module capacity and exclusivity are ignored). It is the smaller of two maximum matchings between
// unassigned courses and teacher slots: one treats each free (teacher, module) pair as a slot ignoring capacity left, the
// other treats each unit of capacity left as a slot ignoring modules
func (scheduler *Scheduler) CoverageBound() (int, error) {
	courses := lo.Filter(scheduler.sortedCourses(), func(course *model.Course, _ int) bool {
		return !course.Assigned()
	})
	if len(courses) == 0 {
		return 0, nil
	}

	teachers := lo.Filter(lo.Values(scheduler.teachers), func(teacher *model.Teacher, _ int) bool {
		return teacher.CapacityLeft > 0
	})
	slices.SortFunc(teachers, func(a, b *model.Teacher) int { return cmp.Compare(a.Name, b.Name) })

	moduleSlots, capacitySlots := make([]teacherSlot, 0), make([]teacherSlot, 0)
	for _, teacher := range teachers {
		for number := 1; number <= model.ModulesPerLayer; number++ {
			if !teacher.Occupied(number) && teacher.AvailabilityAt(number) != model.Forbidden {
				moduleSlots = append(moduleSlots, teacherSlot{teacher.Name, number})
			}
		}
		for unit := range teacher.CapacityLeft {
			capacitySlots = append(capacitySlots, teacherSlot{teacher.Name, unit})
		}
	}

	byModule, err := largestMatching(courses, moduleSlots, func(course *model.Course, slot teacherSlot) bool {
		return scheduler.teachers[slot.teacher].IsAvailable(course.Name, slot.index, false) && course.Teachers[slot.teacher]
	})
	if err != nil {
		return 0, err
	}

	byCapacity, err := largestMatching(courses, capacitySlots, func(course *model.Course, slot teacherSlot) bool {
		teacher := scheduler.teachers[slot.teacher]
		return course.Teachers[slot.teacher] && lo.SomeBy(lo.Range(model.ModulesPerLayer), func(i int) bool {
			return teacher.IsAvailable(course.Name, i+1, false)
		})
	})
	if err != nil {
		return 0, err
	}

	return min(byModule, byCapacity), nil
}

func largestMatching(courses []*model.Course, slots []teacherSlot, related func(*model.Course, teacherSlot) bool) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	// Build neighbors predicate based on relationships
	neighbors := func(courseAny any, slotAny any) (bool, error) {
		return related(courseAny.(*model.Course), slotAny.(teacherSlot)), nil
	}

	// Transform courses and slots to slices of any
	coursesAny, slotsAny := lo.Map(courses, func(course *model.Course, _ int) any { return course }), lo.Map(slots, func(slot teacherSlot, _ int) any { return slot })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}
