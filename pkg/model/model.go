package model

import "errors"

const (
	ModulesPerLayer       = 14 // Modules available in every layer; absolute order of (layer, module) is layer*ModulesPerLayer + module
	DefaultModuleCapacity = 9
)

type Availability int8

const (
	Forbidden Availability = -1
	Soft      Availability = 0 // Acceptable, but the assignment needs confirmation
	Preferred Availability = 1
)

var (
	ErrUnknownCourse   = errors.New("unknown course")
	ErrUnknownTeacher  = errors.New("unknown teacher")
	ErrForbiddenModule = errors.New("module is forbidden for teacher")
	ErrModuleState     = errors.New("invalid module state")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAssigned        = errors.New("course already assigned")
)

type Teachers map[string]*Teacher

type Courses map[string]*Course

type Modules map[int]*Module

// Absolute returns the position of (layer, module) in the total order used to sequence prerequisites
func Absolute(layer, module int) int {
	return layer*ModulesPerLayer + module
}

// ValidModule checks whether module lies within 1..ModulesPerLayer
func ValidModule(module int) bool {
	return module >= 1 && module <= ModulesPerLayer
}

// NewModules builds modules 1..ModulesPerLayer sharing the same capacity
func NewModules(capacity int) Modules {
	modules := make(Modules, ModulesPerLayer)
	for number := 1; number <= ModulesPerLayer; number++ {
		modules[number] = NewModule(number, capacity)
	}
	return modules
}
