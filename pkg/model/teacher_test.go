package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Availability for every module set to value, except for the overridden ones
func availabilityWith(value Availability, overrides map[int]Availability) []Availability {
	availability := make([]Availability, ModulesPerLayer)
	for i := range availability {
		availability[i] = value
	}
	for module, override := range overrides {
		availability[module-1] = override
	}
	return availability
}

func TestNewTeacher(t *testing.T) {
	t.Run("Valid teacher", func(t *testing.T) {
		//** Act
		teacher, err := NewTeacher("Alice", []string{"CS101", "CS102"}, availabilityWith(Preferred, nil), 3)

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, 3, teacher.CapacityTotal)
		assert.Equal(t, 3, teacher.CapacityLeft)
		assert.Equal(t, 2, teacher.Specialization())
		assert.Empty(t, teacher.Bookings)
	})

	t.Run("Invalid teachers", func(t *testing.T) {
		cases := map[string]func() (*Teacher, error){
			"empty name": func() (*Teacher, error) {
				return NewTeacher("", nil, availabilityWith(Preferred, nil), 1)
			},
			"negative capacity": func() (*Teacher, error) {
				return NewTeacher("Alice", nil, availabilityWith(Preferred, nil), -1)
			},
			"short availability": func() (*Teacher, error) {
				return NewTeacher("Alice", nil, []Availability{Preferred, Soft}, 1)
			},
			"out of range availability": func() (*Teacher, error) {
				return NewTeacher("Alice", nil, availabilityWith(Preferred, map[int]Availability{4: 2}), 1)
			},
		}

		for name, build := range cases {
			t.Run(name, func(t *testing.T) {
				teacher, err := build()
				assert.Nil(t, teacher)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestTeacherIsAvailable(t *testing.T) {
	//** Arrange
	teacher, err := NewTeacher("Alice", []string{"CS101"}, availabilityWith(Preferred, map[int]Availability{2: Soft, 3: Forbidden}), 2)
	require.Nil(t, err)

	//** Assert
	assert.True(t, teacher.IsAvailable("CS101", 1, true))
	assert.False(t, teacher.IsAvailable("CS102", 1, false), "course outside capabilities")
	assert.False(t, teacher.IsAvailable("CS101", 2, true), "soft module under strict mode")
	assert.True(t, teacher.IsAvailable("CS101", 2, false), "soft module under soft mode")
	assert.False(t, teacher.IsAvailable("CS101", 3, false), "forbidden module")
	assert.False(t, teacher.IsAvailable("CS101", 0, false), "module out of range")
	assert.False(t, teacher.IsAvailable("CS101", ModulesPerLayer+1, false), "module out of range")

	t.Run("Occupied module", func(t *testing.T) {
		require.True(t, teacher.Book("CS101", 1))
		assert.False(t, teacher.IsAvailable("CS101", 1, false))
		assert.True(t, teacher.IsAvailable("CS101", 4, false))
	})

	t.Run("Capacity exhausted", func(t *testing.T) {
		require.True(t, teacher.Book("CS101", 4))
		assert.False(t, teacher.IsAvailable("CS101", 5, false))
	})
}

func TestTeacherAvailabilityScore(t *testing.T) {
	teacher, err := NewTeacher("Alice", nil, availabilityWith(Preferred, map[int]Availability{2: Soft, 3: Forbidden}), 1)
	require.Nil(t, err)

	score, err := teacher.AvailabilityScore(1)
	assert.Nil(t, err)
	assert.Equal(t, 0, score)

	score, err = teacher.AvailabilityScore(2)
	assert.Nil(t, err)
	assert.Equal(t, 1, score)

	_, err = teacher.AvailabilityScore(3)
	assert.ErrorIs(t, err, ErrForbiddenModule)
}

func TestTeacherBook(t *testing.T) {
	t.Run("Successful booking", func(t *testing.T) {
		//** Arrange
		teacher, err := NewTeacher("Alice", []string{"CS101", "CS102"}, availabilityWith(Preferred, nil), 2)
		require.Nil(t, err)

		//** Act
		booked := teacher.Book("CS101", 7)

		//** Assert
		assert.True(t, booked)
		assert.Equal(t, 1, teacher.CapacityLeft)
		assert.Equal(t, []Booking{{Course: "CS101", Module: 7}}, teacher.Bookings)
		assert.True(t, teacher.Occupied(7))
		assert.Equal(t, []int{7}, teacher.OccupiedModules())
	})

	t.Run("Rejected booking leaves state untouched", func(t *testing.T) {
		//** Arrange
		teacher, err := NewTeacher("Alice", []string{"CS101"}, availabilityWith(Forbidden, map[int]Availability{7: Soft}), 1)
		require.Nil(t, err)

		//** Act
		forbidden := teacher.Book("CS101", 8)
		unknown := teacher.Book("CS999", 7)

		//** Assert
		assert.False(t, forbidden)
		assert.False(t, unknown)
		assert.Equal(t, 1, teacher.CapacityLeft)
		assert.Empty(t, teacher.Bookings)
		assert.Empty(t, teacher.OccupiedModules())
	})

	t.Run("Same module twice", func(t *testing.T) {
		teacher, err := NewTeacher("Alice", []string{"CS101", "CS102"}, availabilityWith(Preferred, nil), 2)
		require.Nil(t, err)

		assert.True(t, teacher.Book("CS101", 3))
		assert.False(t, teacher.Book("CS102", 3))
		assert.Equal(t, 1, teacher.CapacityLeft)
	})
}

func TestPlaceholderTeacher(t *testing.T) {
	teacher := NewPlaceholderTeacher("Ghost")

	assert.Equal(t, "Ghost", teacher.Name)
	assert.Equal(t, 0, teacher.CapacityTotal)
	assert.Equal(t, 0, teacher.CapacityLeft)
	assert.Empty(t, teacher.Courses)
	assert.Empty(t, teacher.Bookings)
	for module := 1; module <= ModulesPerLayer; module++ {
		assert.Equal(t, Forbidden, teacher.AvailabilityAt(module))
		assert.False(t, teacher.IsAvailable("CS101", module, false))
	}
}
