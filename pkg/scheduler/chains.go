package scheduler

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type chainCandidate struct {
	course   *model.Course
	feasible int // Modules the course fits in at the current layer ("most constrained first")
	latest   int // Latest module among its prerequisites (higher keeps the chain moving)
}

func compareChainCandidates(a, b chainCandidate) int {
	return cmp.Or(
		cmp.Compare(a.feasible, b.feasible),
		cmp.Compare(b.latest, a.latest),
		cmp.Compare(a.course.Name, b.course.Name),
	)
}

// PlaceChains schedules the courses belonging to prerequisite chains, layer by layer. For every layer a strict sweep over the
// modules is attempted first and the soft one only when the strict sweep placed nothing; a layer without any progress gives
// way to the next one. Chained courses still unassigned once maxLayers is exceeded stay unassigned
func (scheduler *Scheduler) PlaceChains() (int, error) {
	if err := scheduler.begin(FixedPlaced); err != nil {
		return 0, err
	}

	unassigned := lo.Filter(scheduler.sortedCourses(), func(course *model.Course, _ int) bool {
		return course.Chained && !course.Assigned()
	})

	assigned, layer := 0, 0
	for len(unassigned) > 0 && layer <= scheduler.maxLayers {
		progress := 0

		//** Two-phase loop: strict first, then soft
		for _, strict := range []bool{true, false} {
			placed, err := scheduler.chainSweep(&unassigned, layer, strict)
			if err != nil {
				return assigned, scheduler.fail(err)
			}

			// Strict progress on this layer forbids entering soft mode
			if placed > 0 {
				progress += placed
				break
			}
		}

		if progress == 0 {
			layer++
		}
		assigned += progress
	}

	scheduler.layerReached = layer
	scheduler.stage = ChainsPlaced

	if len(unassigned) > 0 {
		scheduler.logger.Warn("chain courses left unassigned",
			zap.Int("layer", layer),
			zap.Strings("courses", lo.Map(unassigned, func(course *model.Course, _ int) string { return course.Name })),
		)
	}
	scheduler.logger.Info("chain pass completed", zap.Int("assigned", assigned), zap.Int("layer", layer))
	return assigned, nil
}

// Sweeps modules 1..ModulesPerLayer once, placing at most one chained course per module
func (scheduler *Scheduler) chainSweep(unassigned *[]*model.Course, layer int, strict bool) (int, error) {
	placed := 0
	for number := 1; number <= model.ModulesPerLayer; number++ {
		module := scheduler.modules[number]
		if module.HasCelebrity || module.ChainCount(layer) >= 1 {
			continue
		}

		candidates := make([]chainCandidate, 0, len(*unassigned))
		for _, course := range *unassigned {
			ready, err := scheduler.ready(course, layer)
			if err != nil {
				return placed, err
			} else if !ready {
				continue
			}

			fits, err := scheduler.fits(course, number, layer, strict)
			if err != nil {
				return placed, err
			} else if !fits {
				continue
			}

			feasible, err := scheduler.feasibleModules(course, layer, strict)
			if err != nil {
				return placed, err
			}
			latest, err := course.LatestPrereqModule(scheduler.courses)
			if err != nil {
				return placed, err
			}
			candidates = append(candidates, chainCandidate{course, feasible, latest})
		}
		if len(candidates) == 0 {
			continue
		}

		chosen := slices.MinFunc(candidates, compareChainCandidates).course

		ok, err := chosen.Occupy(number, layer, scheduler.courses, scheduler.teachers, strict)
		if err != nil {
			return placed, err
		} else if !ok {
			return placed, fmt.Errorf("%w: \"%v\" was feasible in module %v, layer %v but assignment failed", ErrInconsistentState, chosen.Name, number, layer)
		}
		if err := module.Place(chosen, layer, false); err != nil {
			return placed, fmt.Errorf("%w: %w", ErrInconsistentState, err)
		}

		scheduler.logger.Debug("chain course placed", placementFields(chosen, strict)...)
		*unassigned = slices.DeleteFunc(*unassigned, func(course *model.Course) bool { return course == chosen })
		placed++
	}
	return placed, nil
}

func (scheduler *Scheduler) ready(course *model.Course, layer int) (bool, error) {
	if !course.Chained || course.Assigned() || layer < course.MinLayer {
		return false, nil
	}
	return course.PrereqsAssigned(scheduler.courses)
}

func (scheduler *Scheduler) fits(course *model.Course, number, layer int, strict bool) (bool, error) {
	module := scheduler.modules[number]
	if module.HasCelebrity || !module.CanAccept(course, layer, false) {
		return false, nil
	}
	return course.CanOccupy(number, layer, scheduler.courses, scheduler.teachers, strict)
}

func (scheduler *Scheduler) feasibleModules(course *model.Course, layer int, strict bool) (int, error) {
	feasible := 0
	for number := 1; number <= model.ModulesPerLayer; number++ {
		fits, err := scheduler.fits(course, number, layer, strict)
		if err != nil {
			return 0, err
		}
		if fits {
			feasible++
		}
	}
	return feasible, nil
}
