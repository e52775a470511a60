package scheduler

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type fillCandidate struct {
	course  *model.Course
	options int // Teachers available for the module ("most constrained first")
}

func compareFillCandidates(a, b fillCandidate) int {
	return cmp.Or(
		cmp.Compare(a.options, b.options),
		cmp.Compare(a.course.Name, b.course.Name),
	)
}

// Fill places every remaining course on a best-effort basis, layers aside. Sweeps over the modules, emptiest first, are
// repeated until one places nothing; strict availability is exhausted before the soft one. Courses left over stay unassigned
func (scheduler *Scheduler) Fill() (int, error) {
	if err := scheduler.begin(ChainsPlaced); err != nil {
		return 0, err
	}

	unassigned := lo.Filter(scheduler.sortedCourses(), func(course *model.Course, _ int) bool {
		return !course.Assigned()
	})

	assigned := 0
	for _, strict := range []bool{true, false} {
		for len(unassigned) > 0 {
			placed, err := scheduler.fillSweep(&unassigned, strict)
			if err != nil {
				return assigned, scheduler.fail(err)
			}
			assigned += placed

			// A sweep without placements ends the phase
			if placed == 0 {
				break
			}
		}

		if len(unassigned) == 0 {
			break
		}
	}

	scheduler.stage = Filled
	scheduler.logger.Info("fill pass completed",
		zap.Int("assigned", assigned),
		zap.Int("unassigned", len(unassigned)),
	)
	return assigned, nil
}

func (scheduler *Scheduler) fillSweep(unassigned *[]*model.Course, strict bool) (int, error) {
	placed := 0
	for _, number := range scheduler.emptiestModules() {
		module := scheduler.modules[number]

		candidates := make([]fillCandidate, 0, len(*unassigned))
		for _, course := range *unassigned {
			// Module capacity is checked by CanAccept
			if !module.CanAccept(course, 0, false) {
				continue
			}

			available, err := course.AvailableTeachers(number, scheduler.teachers, strict)
			if err != nil {
				return placed, err
			} else if len(available) == 0 {
				continue
			}
			candidates = append(candidates, fillCandidate{course, len(available)})
		}
		if len(candidates) == 0 {
			continue
		}
		chosen := slices.MinFunc(candidates, compareFillCandidates).course

		// A failed assignment (e.g. unmet prerequisites) leaves the module without placement for this sweep
		ok, err := chosen.Occupy(number, 0, scheduler.courses, scheduler.teachers, strict)
		if err != nil {
			return placed, err
		} else if !ok {
			continue
		}
		if err := module.Place(chosen, 0, false); err != nil {
			return placed, fmt.Errorf("%w: %w", ErrInconsistentState, err)
		}

		scheduler.logger.Debug("course placed", placementFields(chosen, strict)...)
		*unassigned = slices.DeleteFunc(*unassigned, func(course *model.Course) bool { return course == chosen })
		placed++
	}
	return placed, nil
}

// Module numbers ordered by current occupancy and then by number
func (scheduler *Scheduler) emptiestModules() []int {
	numbers := lo.Keys(scheduler.modules)
	slices.SortFunc(numbers, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(scheduler.modules[a].Count(), scheduler.modules[b].Count()),
			cmp.Compare(a, b),
		)
	})
	return numbers
}
