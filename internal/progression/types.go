package progression

import (
	"time"

	"github.com/2beens/fitledger/internal/catalog"
)

type Goal string

const (
	GoalBulking     Goal = "bulking"
	GoalCutting     Goal = "cutting"
	GoalMaintenance Goal = "maintenance"
)

func (g Goal) IsValid() bool {
	switch g {
	case GoalBulking, GoalCutting, GoalMaintenance:
		return true
	default:
		return false
	}
}

type FitnessLevel string

const (
	FitnessLevelBeginner     FitnessLevel = "beginner"
	FitnessLevelIntermediate FitnessLevel = "intermediate"
	FitnessLevelAdvanced     FitnessLevel = "advanced"
)

// UserProfile holds the body metrics the nutrition targets are derived from.
// Weight in kg, height in cm.
type UserProfile struct {
	Name         string       `json:"name"`
	Weight       float64      `json:"weight"`
	Height       float64      `json:"height"`
	Age          int          `json:"age"`
	Goal         Goal         `json:"goal"`
	FitnessLevel FitnessLevel `json:"fitnessLevel"`
}

// ProfileUpdate is a partial profile; nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string       `json:"name,omitempty"`
	Weight       *float64      `json:"weight,omitempty"`
	Height       *float64      `json:"height,omitempty"`
	Age          *int          `json:"age,omitempty"`
	Goal         *Goal         `json:"goal,omitempty"`
	FitnessLevel *FitnessLevel `json:"fitnessLevel,omitempty"`
}

func (p UserProfile) merge(u ProfileUpdate) UserProfile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Goal != nil {
		p.Goal = *u.Goal
	}
	if u.FitnessLevel != nil {
		p.FitnessLevel = *u.FitnessLevel
	}
	return p
}

type WeightEntry struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

type ExerciseProgressEntry struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
}

// UserProgress is the live progression record of the started program.
type UserProgress struct {
	ProgramID         string                             `json:"programId"`
	CurrentWeek       int                                `json:"currentWeek"`
	CompletedWorkouts []string                           `json:"completedWorkouts"`
	StartDate         time.Time                          `json:"startDate"`
	LastWorkoutDate   *time.Time                         `json:"lastWorkoutDate,omitempty"`
	WeightLog         []WeightEntry                      `json:"weightLog"`
	ExerciseProgress  map[string][]ExerciseProgressEntry `json:"exerciseProgress"`
}

func (up *UserProgress) clone() *UserProgress {
	if up == nil {
		return nil
	}
	clone := *up
	clone.CompletedWorkouts = append([]string{}, up.CompletedWorkouts...)
	clone.WeightLog = append([]WeightEntry{}, up.WeightLog...)
	if up.LastWorkoutDate != nil {
		last := *up.LastWorkoutDate
		clone.LastWorkoutDate = &last
	}
	clone.ExerciseProgress = make(map[string][]ExerciseProgressEntry, len(up.ExerciseProgress))
	for id, entries := range up.ExerciseProgress {
		clone.ExerciseProgress[id] = append([]ExerciseProgressEntry{}, entries...)
	}
	return &clone
}

func (up *UserProgress) hasCompleted(workoutID string) bool {
	for _, id := range up.CompletedWorkouts {
		if id == workoutID {
			return true
		}
	}
	return false
}

// ExerciseSetUpdate is a partial update of a set's working data.
type ExerciseSetUpdate struct {
	SetNumber *int     `json:"setNumber,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

func (u ExerciseSetUpdate) apply(set catalog.ExerciseSet) catalog.ExerciseSet {
	if u.SetNumber != nil {
		set.SetNumber = *u.SetNumber
	}
	if u.Weight != nil {
		set.Weight = *u.Weight
	}
	if u.Reps != nil {
		set.Reps = *u.Reps
	}
	if u.Completed != nil {
		set.Completed = *u.Completed
	}
	return set
}

// state is what gets persisted under storage.KeyProgression.
type state struct {
	ActiveProgram *catalog.Program `json:"activeProgram"`
	UserProgress  *UserProgress    `json:"userProgress"`
	UserProfile   *UserProfile     `json:"userProfile"`
}
