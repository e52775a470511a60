package model

import (
	"fmt"
	"maps"
	"slices"
)

// Module is a single time slot shared by every layer
type Module struct {
	Number       int
	Capacity     int
	Courses      []string    // Occupants, across all layers, in placement order
	ChainLayers  map[int]int // Chained occupants per layer
	HasCelebrity bool        // Holds a fixed placement

	chained int
}

func NewModule(number, capacity int) *Module {
	return &Module{
		Number:      number,
		Capacity:    capacity,
		Courses:     make([]string, 0, capacity),
		ChainLayers: make(map[int]int),
	}
}

func (module *Module) Count() int {
	return len(module.Courses)
}

func (module *Module) ChainCount(layer int) int {
	return module.ChainLayers[layer]
}

// Checks whether the module holds any chained occupant in any layer
func (module *Module) HasChain() bool {
	return module.chained > 0
}

// Module-level constraints only: capacity, chain/celebrity exclusivity and one chained course per layer.
// Prerequisites and teacher availability are not checked
func (module *Module) CanAccept(course *Course, layer int, celebrity bool) bool {
	if module.Count() >= module.Capacity {
		return false
	}

	if course.Chained && (module.HasCelebrity || module.ChainCount(layer) >= 1) {
		return false
	}

	if celebrity && (module.HasCelebrity || module.HasChain()) {
		return false
	}

	return true
}

// Adds the course to the module. Assumes CanAccept was already validated
func (module *Module) Place(course *Course, layer int, celebrity bool) error {
	if celebrity {
		if module.HasCelebrity {
			return fmt.Errorf("%w: module %v already has a celebrity course", ErrModuleState, module.Number)
		} else if module.HasChain() {
			return fmt.Errorf("%w: cannot add celebrity course \"%v\" to module %v after chain courses", ErrModuleState, course.Name, module.Number)
		}
		module.HasCelebrity = true
	}

	module.Courses = append(module.Courses, course.Name)

	if course.Chained {
		module.ChainLayers[layer]++
		module.chained++
	}
	return nil
}

func (module *Module) String() string {
	layers := slices.Sorted(maps.Keys(module.ChainLayers))
	chainLayers := make([]string, 0, len(layers))
	for _, layer := range layers {
		chainLayers = append(chainLayers, fmt.Sprintf("%v:%v", layer, module.ChainLayers[layer]))
	}
	return fmt.Sprintf("Module(%v, total=%v, celebrity=%v, chain_layers=%v)", module.Number, module.Count(), module.HasCelebrity, chainLayers)
}
