package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/fitledger/internal/catalog"
	"github.com/2beens/fitledger/internal/storage"
	"github.com/2beens/fitledger/internal/telemetry/metrics"
	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNoActiveProgram  = errors.New("no active program")
	ErrInvalidProgramID = errors.New("invalid program id")
	ErrWorkoutNotFound  = errors.New("workout not found in current week")
	ErrExerciseNotFound = errors.New("exercise not found in active program")
	ErrNoNextWeek       = errors.New("no next week")
	ErrWeekLocked       = errors.New("next week is locked")
)

// Engine owns the active program, the user's progress through it and the
// user profile. All mutations are serialized; after each successful one the
// whole state is handed to the persister as a snapshot.
type Engine struct {
	catalog        programCatalog
	clock          pkg.Clock
	persister      statePersister
	metricsManager *metrics.Manager

	mu            sync.Mutex
	activeProgram *catalog.Program
	userProgress  *UserProgress
	userProfile   *UserProfile
}

type EngineParams struct {
	Catalog        programCatalog
	Clock          pkg.Clock
	Persister      statePersister
	MetricsManager *metrics.Manager
}

func NewEngine(params EngineParams) *Engine {
	clock := params.Clock
	if clock == nil {
		clock = pkg.SystemClock{}
	}
	return &Engine{
		catalog:        params.Catalog,
		clock:          clock,
		persister:      params.Persister,
		metricsManager: params.MetricsManager,
	}
}

// Restore replaces the in-memory state with the last persisted snapshot.
// A missing snapshot leaves the engine empty.
func (e *Engine) Restore(ctx context.Context, loader stateLoader) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progression.engine.restore")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := loader.Load(ctx, storage.KeyProgression)
	if errors.Is(err, storage.ErrNotFound) {
		log.Debugln("no persisted progression state, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load progression state: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode progression state: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeProgram = st.ActiveProgram
	e.userProgress = st.UserProgress
	if e.userProgress != nil && e.userProgress.ExerciseProgress == nil {
		e.userProgress.ExerciseProgress = make(map[string][]ExerciseProgressEntry)
	}
	e.userProfile = st.UserProfile
	return nil
}

// Programs lists the reference catalog.
func (e *Engine) Programs() []catalog.Program {
	return e.catalog.Programs()
}

// ActiveProgram returns a copy of the active program, if any.
func (e *Engine) ActiveProgram() (catalog.Program, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeProgram == nil {
		return catalog.Program{}, false
	}
	return e.activeProgram.Clone(), true
}

func (e *Engine) UserProgress() (UserProgress, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.userProgress == nil {
		return UserProgress{}, false
	}
	return *e.userProgress.clone(), true
}

func (e *Engine) UserProfile() (UserProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.userProfile == nil {
		return UserProfile{}, false
	}
	return *e.userProfile, true
}

// SetActiveProgram makes a fresh copy of the catalog program active without
// touching progress. Re-selecting the program in progress keeps the completed
// workouts. An unknown id clears the active program.
func (e *Engine) SetActiveProgram(ctx context.Context, programID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.setActiveProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	program, found := e.catalog.Program(programID)
	if !found {
		e.activeProgram = nil
		e.persistLocked()
		return fmt.Errorf("set active program [%s]: %w", programID, ErrInvalidProgramID)
	}

	e.activeProgram = freshProgram(program)
	if e.userProgress != nil && e.userProgress.ProgramID == programID {
		replayCompleted(e.activeProgram, e.userProgress.CompletedWorkouts)
	}
	e.persistLocked()
	return nil
}

// StartProgram begins the program from week 1, replacing any prior progress.
func (e *Engine) StartProgram(ctx context.Context, programID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.startProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	program, found := e.catalog.Program(programID)
	if !found {
		return fmt.Errorf("start program [%s]: %w", programID, ErrInvalidProgramID)
	}

	if prev := e.userProgress; prev != nil && prev.ProgramID != programID && len(prev.CompletedWorkouts) > 0 {
		log.Warnf("starting program [%s] discards progress of [%s] (%d completed workouts)",
			programID, prev.ProgramID, len(prev.CompletedWorkouts))
	}

	e.activeProgram = freshProgram(program)
	e.userProgress = &UserProgress{
		ProgramID:         programID,
		CurrentWeek:       1,
		CompletedWorkouts: []string{},
		StartDate:         e.clock.Now(),
		WeightLog:         []WeightEntry{},
		ExerciseProgress:  make(map[string][]ExerciseProgressEntry),
	}

	if e.metricsManager != nil {
		e.metricsManager.CounterProgramsStarted.Inc()
	}
	log.Debugf("program [%s] started", programID)

	e.persistLocked()
	return nil
}

// CompleteWorkout marks a workout of the current week done. Completing the
// last open workout of a week completes the week and unlocks the next one.
// Completing an already completed workout is a no-op.
func (e *Engine) CompleteWorkout(ctx context.Context, workoutID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.completeWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeProgram == nil || e.userProgress == nil {
		return ErrNoActiveProgram
	}

	weekIdx := e.userProgress.CurrentWeek - 1
	if weekIdx < 0 || weekIdx >= len(e.activeProgram.Weeks) {
		return fmt.Errorf("current week %d out of range: %w", e.userProgress.CurrentWeek, ErrWorkoutNotFound)
	}
	week := &e.activeProgram.Weeks[weekIdx]

	var workout *catalog.Workout
	for i := range week.Workouts {
		if week.Workouts[i].ID == workoutID {
			workout = &week.Workouts[i]
			break
		}
	}
	if workout == nil {
		return fmt.Errorf("complete workout [%s]: %w", workoutID, ErrWorkoutNotFound)
	}

	if workout.IsCompleted {
		log.Debugf("workout [%s] already completed", workoutID)
		return nil
	}

	now := e.clock.Now()
	workout.IsCompleted = true
	if !e.userProgress.hasCompleted(workoutID) {
		e.userProgress.CompletedWorkouts = append(e.userProgress.CompletedWorkouts, workoutID)
	}
	e.userProgress.LastWorkoutDate = &now

	if e.metricsManager != nil {
		e.metricsManager.CounterWorkoutsCompleted.Inc()
	}

	if allCompleted(week.Workouts) {
		week.IsCompleted = true
		if weekIdx+1 < len(e.activeProgram.Weeks) {
			e.activeProgram.Weeks[weekIdx+1].IsLocked = false
			if e.metricsManager != nil {
				e.metricsManager.CounterWeeksUnlocked.Inc()
			}
			log.Debugf("week %d completed, week %d unlocked", week.Number, week.Number+1)
		}
	}

	e.persistLocked()
	return nil
}

// UnlockNextWeek advances the current week. The next week must exist and
// must already be unlocked by completing the current one.
func (e *Engine) UnlockNextWeek(ctx context.Context) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.unlockNextWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeProgram == nil || e.userProgress == nil {
		return ErrNoActiveProgram
	}

	next := e.userProgress.CurrentWeek + 1
	if next > len(e.activeProgram.Weeks) {
		return ErrNoNextWeek
	}
	if e.activeProgram.Weeks[next-1].IsLocked {
		return fmt.Errorf("advance to week %d: %w", next, ErrWeekLocked)
	}

	e.userProgress.CurrentWeek = next
	log.Debugf("advanced to week %d of [%s]", next, e.activeProgram.ID)

	e.persistLocked()
	return nil
}

// UpdateUserProfile merges the non-nil fields into the profile, creating it
// on first use, and returns the result.
func (e *Engine) UpdateUserProfile(ctx context.Context, update ProfileUpdate) (profile UserProfile, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.updateUserProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if update.Goal != nil && !update.Goal.IsValid() {
		return UserProfile{}, fmt.Errorf("invalid goal [%s]", *update.Goal)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := UserProfile{}
	if e.userProfile != nil {
		current = *e.userProfile
	}
	merged := current.merge(update)
	e.userProfile = &merged

	e.persistLocked()
	return merged, nil
}

// LogWeight appends a body weight measurement dated now. The value is not
// range checked.
func (e *Engine) LogWeight(ctx context.Context, weight float64) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.logWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userProgress == nil {
		return ErrNoActiveProgram
	}

	e.userProgress.WeightLog = append(e.userProgress.WeightLog, WeightEntry{
		Date:   e.clock.Now(),
		Weight: weight,
	})

	e.persistLocked()
	return nil
}

// LogExerciseSet appends the set's weight and reps to the exercise's history.
func (e *Engine) LogExerciseSet(ctx context.Context, exerciseID string, set catalog.ExerciseSet) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.logExerciseSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userProgress == nil {
		return ErrNoActiveProgram
	}

	e.userProgress.ExerciseProgress[exerciseID] = append(
		e.userProgress.ExerciseProgress[exerciseID],
		ExerciseProgressEntry{
			Date:   e.clock.Now(),
			Weight: set.Weight,
			Reps:   set.Reps,
		},
	)

	e.persistLocked()
	return nil
}

// UpdateExerciseSet applies the update to the set with setID of the first
// exercise matching exerciseID in the active program. A set that does not
// exist yet is created.
func (e *Engine) UpdateExerciseSet(ctx context.Context, exerciseID, setID string, update ExerciseSetUpdate) (set catalog.ExerciseSet, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.updateExerciseSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeProgram == nil {
		return catalog.ExerciseSet{}, ErrNoActiveProgram
	}

	exercise := e.findExerciseLocked(exerciseID)
	if exercise == nil {
		return catalog.ExerciseSet{}, fmt.Errorf("update set of [%s]: %w", exerciseID, ErrExerciseNotFound)
	}

	for i := range exercise.SetLogs {
		if exercise.SetLogs[i].ID == setID {
			exercise.SetLogs[i] = update.apply(exercise.SetLogs[i])
			e.persistLocked()
			return exercise.SetLogs[i], nil
		}
	}

	created := update.apply(catalog.ExerciseSet{
		ID:        setID,
		SetNumber: len(exercise.SetLogs) + 1,
	})
	exercise.SetLogs = append(exercise.SetLogs, created)

	e.persistLocked()
	return created, nil
}

// ResetProgress drops the active program and all progress. The profile stays.
func (e *Engine) ResetProgress(ctx context.Context) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "progression.engine.resetProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.activeProgram = nil
	e.userProgress = nil
	log.Debugln("progress reset")

	e.persistLocked()
	return nil
}

func (e *Engine) findExerciseLocked(exerciseID string) *catalog.Exercise {
	for wi := range e.activeProgram.Weeks {
		week := &e.activeProgram.Weeks[wi]
		for woi := range week.Workouts {
			workout := &week.Workouts[woi]
			for ei := range workout.Exercises {
				if workout.Exercises[ei].ID == exerciseID {
					return &workout.Exercises[ei]
				}
			}
		}
	}
	return nil
}

func (e *Engine) persistLocked() {
	if e.persister == nil {
		return
	}
	data, err := json.Marshal(state{
		ActiveProgram: e.activeProgram,
		UserProgress:  e.userProgress,
		UserProfile:   e.userProfile,
	})
	if err != nil {
		log.Errorf("marshal progression state: %s", err)
		return
	}
	e.persister.Enqueue(storage.KeyProgression, data)
}

// freshProgram copies a catalog program and normalizes its flags:
// nothing completed, only week 1 unlocked.
func freshProgram(program catalog.Program) *catalog.Program {
	clone := program.Clone()
	for i := range clone.Weeks {
		clone.Weeks[i].IsCompleted = false
		clone.Weeks[i].IsLocked = i > 0
		for j := range clone.Weeks[i].Workouts {
			clone.Weeks[i].Workouts[j].IsCompleted = false
		}
	}
	return &clone
}

// replayCompleted marks the listed workouts done on a fresh program copy,
// completing their weeks and unlocking the weeks that follow.
func replayCompleted(program *catalog.Program, completed []string) {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	for i := range program.Weeks {
		week := &program.Weeks[i]
		for j := range week.Workouts {
			if done[week.Workouts[j].ID] {
				week.Workouts[j].IsCompleted = true
			}
		}
		if len(week.Workouts) > 0 && allCompleted(week.Workouts) {
			week.IsCompleted = true
			if i+1 < len(program.Weeks) {
				program.Weeks[i+1].IsLocked = false
			}
		}
	}
}

func allCompleted(workouts []catalog.Workout) bool {
	for _, w := range workouts {
		if !w.IsCompleted {
			return false
		}
	}
	return true
}
