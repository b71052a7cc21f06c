package progression

import (
	"time"

	"github.com/2beens/fitledger/pkg"
)

// Snapshot summarizes how far the user is into the active program.
type Snapshot struct {
	ProgramID            string     `json:"programId"`
	ProgramName          string     `json:"programName"`
	CurrentWeek          int        `json:"currentWeek"`
	TotalWeeks           int        `json:"totalWeeks"`
	CompletedWorkouts    int        `json:"completedWorkouts"`
	TotalWorkouts        int        `json:"totalWorkouts"`
	PercentComplete      float64    `json:"percentComplete"`
	CurrentWeekCompleted bool       `json:"currentWeekCompleted"`
	NextWeekUnlocked     bool       `json:"nextWeekUnlocked"`
	LatestWeight         *float64   `json:"latestWeight,omitempty"`
	WeightChange         *float64   `json:"weightChange,omitempty"`
	DaysSinceStart       int        `json:"daysSinceStart"`
	LastWorkoutDate      *time.Time `json:"lastWorkoutDate,omitempty"`
}

func (e *Engine) Snapshot() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeProgram == nil || e.userProgress == nil {
		return Snapshot{}, ErrNoActiveProgram
	}

	program := e.activeProgram
	progress := e.userProgress

	snapshot := Snapshot{
		ProgramID:         program.ID,
		ProgramName:       program.Name,
		CurrentWeek:       progress.CurrentWeek,
		TotalWeeks:        len(program.Weeks),
		CompletedWorkouts: len(progress.CompletedWorkouts),
		TotalWorkouts:     program.WorkoutCount(),
		DaysSinceStart:    int(e.clock.Now().Sub(progress.StartDate).Hours() / 24),
	}
	if snapshot.TotalWorkouts > 0 {
		snapshot.PercentComplete = pkg.RoundTo(
			float64(snapshot.CompletedWorkouts)*100/float64(snapshot.TotalWorkouts), 1,
		)
	}

	weekIdx := progress.CurrentWeek - 1
	if weekIdx >= 0 && weekIdx < len(program.Weeks) {
		snapshot.CurrentWeekCompleted = program.Weeks[weekIdx].IsCompleted
		if weekIdx+1 < len(program.Weeks) {
			snapshot.NextWeekUnlocked = !program.Weeks[weekIdx+1].IsLocked
		}
	}

	if n := len(progress.WeightLog); n > 0 {
		latest := progress.WeightLog[n-1].Weight
		change := pkg.RoundTo(latest-progress.WeightLog[0].Weight, 1)
		snapshot.LatestWeight = &latest
		snapshot.WeightChange = &change
	}
	if progress.LastWorkoutDate != nil {
		last := *progress.LastWorkoutDate
		snapshot.LastWorkoutDate = &last
	}

	return snapshot, nil
}

// ExerciseHistory represents the logged sets of one exercise so that,
// for each day, we get the average weight and reps per set.
type ExerciseHistory struct {
	ExerciseID string                   `json:"exerciseId"`
	Stats      map[string]ExerciseStats `json:"stats"`
}

type ExerciseStats struct {
	AvgWeight float64 `json:"avgWeight"`
	MaxWeight float64 `json:"maxWeight"`
	AvgReps   int     `json:"avgReps"`
	Sets      int     `json:"sets"`
}

// ExerciseHistory folds the exercise progress ledger per calendar day.
// Days are keyed as YYYY-MM-DD.
func (e *Engine) ExerciseHistory(exerciseID string) (ExerciseHistory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userProgress == nil {
		return ExerciseHistory{}, ErrNoActiveProgram
	}

	history := ExerciseHistory{
		ExerciseID: exerciseID,
		Stats:      make(map[string]ExerciseStats),
	}

	day2entries := make(map[string][]ExerciseProgressEntry)
	for _, entry := range e.userProgress.ExerciseProgress[exerciseID] {
		day := pkg.DateString(entry.Date)
		day2entries[day] = append(day2entries[day], entry)
	}

	for day, entries := range day2entries {
		var sumWeight, maxWeight float64
		var sumReps int
		for _, entry := range entries {
			sumWeight += entry.Weight
			sumReps += entry.Reps
			if entry.Weight > maxWeight {
				maxWeight = entry.Weight
			}
		}
		history.Stats[day] = ExerciseStats{
			AvgWeight: pkg.RoundTo(sumWeight/float64(len(entries)), 1),
			MaxWeight: maxWeight,
			AvgReps:   sumReps / len(entries),
			Sets:      len(entries),
		}
	}

	return history, nil
}
