package scheduler

import (
	"fmt"

	"github.com/limaJavier/courseplan/pkg/model"
	"go.uber.org/zap"
)

// PlaceFixed places the celebrity courses at their asserted module and teacher. Any violation aborts the run:
// placements come from a trusted source, so a mismatch indicates corrupted upstream data
func (scheduler *Scheduler) PlaceFixed(placements []model.FixedPlacement) (int, error) {
	if err := scheduler.begin(Unstarted); err != nil {
		return 0, err
	}

	assigned := 0
	for i, placement := range placements {
		course, teacher, module, err := scheduler.resolveFixed(placement)
		if err != nil {
			return assigned, scheduler.fail(fmt.Errorf("celebrity row %v: %w", i+1, err))
		}

		//** Mutate only after every check passed
		if !teacher.Book(course.Name, module.Number) {
			return assigned, scheduler.fail(fmt.Errorf("%w: booking teacher \"%v\" for \"%v\" in module %v failed", ErrInconsistentState, teacher.Name, course.Name, module.Number))
		}
		if err := course.AssignFixed(module.Number, teacher.Name); err != nil {
			return assigned, scheduler.fail(fmt.Errorf("%w: %w", ErrInconsistentState, err))
		}
		if err := module.Place(course, 0, true); err != nil {
			return assigned, scheduler.fail(fmt.Errorf("%w: %w", ErrInconsistentState, err))
		}

		scheduler.logger.Debug("fixed course placed", placementFields(course, false)...)
		assigned++
	}

	scheduler.stage = FixedPlaced
	scheduler.logger.Info("fixed pass completed", zap.Int("assigned", assigned))
	return assigned, nil
}

func (scheduler *Scheduler) resolveFixed(placement model.FixedPlacement) (*model.Course, *model.Teacher, *model.Module, error) {
	if placement.Course == "" || placement.Teacher == "" {
		return nil, nil, nil, fmt.Errorf("%w: bad row %+v", ErrFixedPlacement, placement)
	}

	module, ok := scheduler.modules[placement.Module]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: invalid module number %v for \"%v\"", ErrFixedPlacement, placement.Module, placement.Course)
	}
	course, ok := scheduler.courses[placement.Course]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %w: celebrity course \"%v\"", ErrFixedPlacement, model.ErrUnknownCourse, placement.Course)
	}
	teacher, ok := scheduler.teachers[placement.Teacher]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: %w: celebrity teacher \"%v\"", ErrFixedPlacement, model.ErrUnknownTeacher, placement.Teacher)
	}

	if course.Assigned() {
		return nil, nil, nil, fmt.Errorf("%w: course \"%v\" already assigned to module %v", ErrFixedPlacement, course.Name, course.Module)
	} else if !course.Teachers[teacher.Name] {
		return nil, nil, nil, fmt.Errorf("%w: teacher \"%v\" cannot teach \"%v\"", ErrFixedPlacement, teacher.Name, course.Name)
	} else if !teacher.IsAvailable(course.Name, module.Number, false) {
		return nil, nil, nil, fmt.Errorf("%w: teacher \"%v\" not available for \"%v\" in module %v", ErrFixedPlacement, teacher.Name, course.Name, module.Number)
	} else if !module.CanAccept(course, 0, true) {
		return nil, nil, nil, fmt.Errorf("%w: module %v cannot accept celebrity course \"%v\"", ErrFixedPlacement, module.Number, course.Name)
	}

	return course, teacher, module, nil
}
