package scheduler

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const DefaultMaxLayers = 2

var (
	ErrFixedPlacement    = errors.New("invalid fixed placement")
	ErrInconsistentState = errors.New("inconsistent state")
	ErrPassOrder         = errors.New("pass out of order")
	ErrInvariant         = errors.New("invariant violated")
)

type Stage int

const (
	Unstarted Stage = iota
	FixedPlaced
	ChainsPlaced
	Filled
	Failed
)

var stageNames = map[Stage]string{
	Unstarted:    "unstarted",
	FixedPlaced:  "fixed-placed",
	ChainsPlaced: "chains-placed",
	Filled:       "filled",
	Failed:       "failed",
}

func (stage Stage) String() string {
	return stageNames[stage]
}

// Outcome summarizes a complete run
type Outcome struct {
	RunId        string
	Fixed        int
	Chained      int
	Filled       int
	LayerReached int // Layer at which the chain pass stopped
}

type Option func(*Scheduler)

func WithMaxLayers(maxLayers int) Option {
	return func(scheduler *Scheduler) {
		scheduler.maxLayers = maxLayers
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(scheduler *Scheduler) {
		scheduler.logger = logger
	}
}

// Scheduler assigns courses to modules in three passes: fixed (celebrity) placements, prerequisite chains and a best-effort fill.
// Passes mutate the shared courses, teachers and modules in place and must run in that order exactly once
type Scheduler struct {
	teachers model.Teachers
	courses  model.Courses
	modules  model.Modules

	maxLayers    int
	layerReached int
	stage        Stage
	runId        string
	logger       *zap.Logger
}

func New(input model.Input, options ...Option) (*Scheduler, error) {
	scheduler := &Scheduler{
		teachers:  input.Teachers,
		courses:   input.Courses,
		modules:   input.Modules,
		maxLayers: DefaultMaxLayers,
		stage:     Unstarted,
		runId:     uuid.NewString(),
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(scheduler)
	}

	if scheduler.maxLayers < 0 {
		return nil, fmt.Errorf("%w: max layers must not be negative: %v", model.ErrInvalidInput, scheduler.maxLayers)
	}
	if err := scheduler.validate(); err != nil {
		return nil, err
	}

	scheduler.logger = scheduler.logger.With(zap.String("run", scheduler.runId))
	return scheduler, nil
}

// Checks that every cross reference resolves, so that passes only fail on actual inconsistencies
func (scheduler *Scheduler) validate() error {
	for number := 1; number <= model.ModulesPerLayer; number++ {
		module, ok := scheduler.modules[number]
		if !ok {
			return fmt.Errorf("%w: module %v is missing", model.ErrInvalidInput, number)
		} else if module.Number != number {
			return fmt.Errorf("%w: module %v is registered as %v", model.ErrInvalidInput, module.Number, number)
		}
	}
	if len(scheduler.modules) != model.ModulesPerLayer {
		return fmt.Errorf("%w: expected %v modules, got %v", model.ErrInvalidInput, model.ModulesPerLayer, len(scheduler.modules))
	}

	for _, course := range scheduler.sortedCourses() {
		for _, prereq := range course.PrereqNames() {
			if prereq == course.Name {
				return fmt.Errorf("%w: course \"%v\" lists itself as a prerequisite", model.ErrInvalidInput, course.Name)
			} else if _, ok := scheduler.courses[prereq]; !ok {
				return fmt.Errorf("%w: prerequisite \"%v\" of course \"%v\"", model.ErrUnknownCourse, prereq, course.Name)
			}
		}
		for _, teacher := range course.TeacherNames() {
			if _, ok := scheduler.teachers[teacher]; !ok {
				return fmt.Errorf("%w: teacher \"%v\" of course \"%v\"", model.ErrUnknownTeacher, teacher, course.Name)
			}
		}
	}
	return nil
}

// Run executes the three passes in order
func (scheduler *Scheduler) Run(fixed []model.FixedPlacement) (Outcome, error) {
	outcome := Outcome{RunId: scheduler.runId}

	var err error
	if outcome.Fixed, err = scheduler.PlaceFixed(fixed); err != nil {
		return outcome, err
	}
	if outcome.Chained, err = scheduler.PlaceChains(); err != nil {
		return outcome, err
	}
	if outcome.Filled, err = scheduler.Fill(); err != nil {
		return outcome, err
	}
	outcome.LayerReached = scheduler.layerReached
	return outcome, nil
}

func (scheduler *Scheduler) Stage() Stage {
	return scheduler.stage
}

func (scheduler *Scheduler) RunId() string {
	return scheduler.runId
}

func (scheduler *Scheduler) LayerReached() int {
	return scheduler.layerReached
}

func (scheduler *Scheduler) Teachers() model.Teachers {
	return scheduler.teachers
}

func (scheduler *Scheduler) Courses() model.Courses {
	return scheduler.courses
}

func (scheduler *Scheduler) Modules() model.Modules {
	return scheduler.modules
}

// Names of the courses still unassigned, in ascending order
func (scheduler *Scheduler) Unassigned() []string {
	return lo.FilterMap(scheduler.sortedCourses(), func(course *model.Course, _ int) (string, bool) {
		return course.Name, !course.Assigned()
	})
}

func (scheduler *Scheduler) begin(expected Stage) error {
	if scheduler.stage != expected {
		return fmt.Errorf("%w: scheduler is %v, expected %v", ErrPassOrder, scheduler.stage, expected)
	}
	return nil
}

func (scheduler *Scheduler) fail(err error) error {
	scheduler.stage = Failed
	scheduler.logger.Error("scheduling aborted", zap.Error(err))
	return err
}

func (scheduler *Scheduler) sortedCourses() []*model.Course {
	courses := lo.Values(scheduler.courses)
	slices.SortFunc(courses, func(a, b *model.Course) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return courses
}

func placementFields(course *model.Course, strict bool) []zap.Field {
	return []zap.Field{
		zap.String("course", course.Name),
		zap.Int("module", course.Module),
		zap.Int("layer", course.Layer),
		zap.String("teacher", course.Teacher),
		zap.Bool("strict", strict),
	}
}
