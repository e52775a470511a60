package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleCanAccept(t *testing.T) {
	t.Run("Capacity exhausted", func(t *testing.T) {
		//** Arrange
		module := NewModule(1, 1)
		require.Nil(t, module.Place(NewCourse("A"), 0, false))

		//** Assert
		assert.False(t, module.CanAccept(NewCourse("B"), 0, false))
		assert.False(t, module.CanAccept(NewCourse("C").Chain(0), 1, false))
		assert.False(t, module.CanAccept(NewCourse("D"), 0, true))
	})

	t.Run("One chain course per layer", func(t *testing.T) {
		module := NewModule(1, DefaultModuleCapacity)
		require.Nil(t, module.Place(NewCourse("A").Chain(0), 0, false))

		assert.False(t, module.CanAccept(NewCourse("B").Chain(0), 0, false))
		assert.True(t, module.CanAccept(NewCourse("B").Chain(0), 1, false))
		assert.True(t, module.CanAccept(NewCourse("C"), 0, false))
		assert.Equal(t, 1, module.ChainCount(0))
		assert.True(t, module.HasChain())
	})

	t.Run("Celebrity and chain courses exclude each other", func(t *testing.T) {
		chained := NewModule(1, DefaultModuleCapacity)
		require.Nil(t, chained.Place(NewCourse("A").Chain(0), 2, false))
		assert.False(t, chained.CanAccept(NewCourse("B"), 0, true))

		celebrity := NewModule(2, DefaultModuleCapacity)
		require.Nil(t, celebrity.Place(NewCourse("C"), 0, true))
		assert.False(t, celebrity.CanAccept(NewCourse("D").Chain(0), 1, false))
		assert.False(t, celebrity.CanAccept(NewCourse("E"), 0, true))
		assert.True(t, celebrity.CanAccept(NewCourse("F"), 0, false))
	})
}

func TestModulePlace(t *testing.T) {
	t.Run("Tracks occupants", func(t *testing.T) {
		module := NewModule(3, DefaultModuleCapacity)

		require.Nil(t, module.Place(NewCourse("A"), 0, true))
		require.Nil(t, module.Place(NewCourse("B"), 0, false))

		assert.Equal(t, []string{"A", "B"}, module.Courses)
		assert.Equal(t, 2, module.Count())
		assert.True(t, module.HasCelebrity)
		assert.False(t, module.HasChain())
	})

	t.Run("Rejects a second celebrity", func(t *testing.T) {
		module := NewModule(3, DefaultModuleCapacity)
		require.Nil(t, module.Place(NewCourse("A"), 0, true))

		err := module.Place(NewCourse("B"), 0, true)

		assert.ErrorIs(t, err, ErrModuleState)
		assert.Equal(t, 1, module.Count())
	})

	t.Run("Rejects a celebrity after chain courses", func(t *testing.T) {
		module := NewModule(3, DefaultModuleCapacity)
		require.Nil(t, module.Place(NewCourse("A").Chain(0), 1, false))

		err := module.Place(NewCourse("B"), 0, true)

		assert.ErrorIs(t, err, ErrModuleState)
		assert.False(t, module.HasCelebrity)
		assert.Equal(t, 1, module.Count())
	})
}

func TestNewModules(t *testing.T) {
	modules := NewModules(4)

	assert.Len(t, modules, ModulesPerLayer)
	for number := 1; number <= ModulesPerLayer; number++ {
		assert.Equal(t, number, modules[number].Number)
		assert.Equal(t, 4, modules[number].Capacity)
	}
}

func TestAbsolute(t *testing.T) {
	assert.Equal(t, 5, Absolute(0, 5))
	assert.Equal(t, ModulesPerLayer+1, Absolute(1, 1))
	assert.Less(t, Absolute(0, ModulesPerLayer), Absolute(1, 1))
}
