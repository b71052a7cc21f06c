package catalog_test

import (
	"errors"
	"testing"

	"github.com/2beens/fitledger/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoWeekProgram(id string) catalog.Program {
	return catalog.Program{
		ID:   id,
		Name: "Test " + id,
		Type: catalog.ProgramTypeBulking,
		Weeks: []catalog.Week{
			{Number: 1, Workouts: []catalog.Workout{{ID: id + "-w1", Day: 1, Focus: "upper"}}},
			{Number: 2, Workouts: []catalog.Workout{{ID: id + "-w2", Day: 1, Focus: "lower"}}},
		},
	}
}

func TestLoadFile_Seed(t *testing.T) {
	c, err := catalog.LoadFile("../../assets/programs.toml")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	programs := c.Programs()
	assert.Equal(t, "lean-bulk-8", programs[0].ID)
	assert.Equal(t, "shred-6", programs[1].ID)

	bulk := programs[0]
	assert.Equal(t, catalog.ProgramTypeBulking, bulk.Type)
	require.Len(t, bulk.Weeks, 2)
	require.Len(t, bulk.Weeks[0].Workouts, 2)
	assert.Equal(t, "upper", bulk.Weeks[0].Workouts[0].Focus)
	require.Len(t, bulk.Weeks[0].Workouts[0].Exercises, 2)
	assert.Equal(t, "lb-bench-press", bulk.Weeks[0].Workouts[0].Exercises[0].ID)
	assert.Equal(t, 120, bulk.Weeks[0].Workouts[0].Exercises[0].RestSeconds)

	shred, ok := c.Program("shred-6")
	require.True(t, ok)
	require.NotNil(t, shred.Weeks[0].Workouts[0].Cardio)
	assert.Equal(t, 20, shred.Weeks[0].Workouts[0].Cardio.DurationMinutes)
	assert.Equal(t, 4, bulk.WorkoutCount())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := catalog.LoadFile("does-not-exist.toml")
	require.Error(t, err)
}

func TestParse_InvalidToml(t *testing.T) {
	_, err := catalog.Parse("[[program]\nid=")
	require.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	t.Run("duplicate_ids", func(t *testing.T) {
		_, err := catalog.New([]catalog.Program{twoWeekProgram("p"), twoWeekProgram("p")})
		assert.True(t, errors.Is(err, catalog.ErrInvalidCatalog))
	})

	t.Run("non_contiguous_weeks", func(t *testing.T) {
		p := twoWeekProgram("p")
		p.Weeks[1].Number = 3
		_, err := catalog.New([]catalog.Program{p})
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	})

	t.Run("unknown_type", func(t *testing.T) {
		p := twoWeekProgram("p")
		p.Type = "maintenance"
		_, err := catalog.New([]catalog.Program{p})
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	})

	t.Run("no_weeks", func(t *testing.T) {
		p := twoWeekProgram("p")
		p.Weeks = nil
		_, err := catalog.New([]catalog.Program{p})
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	})

	t.Run("duplicate_workout_ids", func(t *testing.T) {
		p := twoWeekProgram("p")
		p.Weeks[1].Workouts[0].ID = p.Weeks[0].Workouts[0].ID
		_, err := catalog.New([]catalog.Program{p})
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	})
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := catalog.New([]catalog.Program{twoWeekProgram("p")})
	require.NoError(t, err)

	p, ok := c.Program("p")
	require.True(t, ok)
	p.Weeks[0].IsCompleted = true
	p.Weeks[0].Workouts[0].IsCompleted = true
	p.Weeks[0].Workouts[0].Exercises = append(p.Weeks[0].Workouts[0].Exercises, catalog.Exercise{ID: "x"})

	again, _ := c.Program("p")
	assert.False(t, again.Weeks[0].IsCompleted)
	assert.False(t, again.Weeks[0].Workouts[0].IsCompleted)
	assert.Empty(t, again.Weeks[0].Workouts[0].Exercises)

	_, ok = c.Program("unknown")
	assert.False(t, ok)
}
