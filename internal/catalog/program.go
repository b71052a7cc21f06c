package catalog

type ProgramType string

const (
	ProgramTypeBulking ProgramType = "bulking"
	ProgramTypeCutting ProgramType = "cutting"
)

func (pt ProgramType) IsValid() bool {
	switch pt {
	case ProgramTypeBulking, ProgramTypeCutting:
		return true
	default:
		return false
	}
}

// Program is a fixed-length, multi-week workout curriculum.
type Program struct {
	ID          string      `json:"id" toml:"id"`
	Name        string      `json:"name" toml:"name"`
	Type        ProgramType `json:"type" toml:"type"`
	Description string      `json:"description,omitempty" toml:"description"`
	Weeks       []Week      `json:"weeks" toml:"week"`
}

type Week struct {
	Number      int       `json:"number" toml:"number"`
	Workouts    []Workout `json:"workouts" toml:"workout"`
	IsCompleted bool      `json:"isCompleted" toml:"-"`
	IsLocked    bool      `json:"isLocked" toml:"-"`
}

type Workout struct {
	ID          string     `json:"id" toml:"id"`
	Day         int        `json:"day" toml:"day"`
	Focus       string     `json:"focus" toml:"focus"`
	Exercises   []Exercise `json:"exercises" toml:"exercise"`
	Cardio      *Cardio    `json:"cardio,omitempty" toml:"cardio"`
	IsCompleted bool       `json:"isCompleted" toml:"-"`
}

type Cardio struct {
	Type            string `json:"type" toml:"type"`
	DurationMinutes int    `json:"durationMinutes" toml:"duration_minutes"`
	Intensity       string `json:"intensity,omitempty" toml:"intensity"`
}

type Exercise struct {
	ID           string `json:"id" toml:"id"`
	Name         string `json:"name" toml:"name"`
	TargetMuscle string `json:"targetMuscle" toml:"target_muscle"`
	Sets         int    `json:"sets" toml:"sets"`
	Reps         string `json:"reps" toml:"reps"`
	RestSeconds  int    `json:"restSeconds" toml:"rest_seconds"`

	// SetLogs is user-entered working data, never part of the reference catalog.
	SetLogs []ExerciseSet `json:"setLogs,omitempty" toml:"-"`
}

type ExerciseSet struct {
	ID        string  `json:"id"`
	SetNumber int     `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// Clone returns a deep copy, safe to mutate without touching the catalog.
func (p Program) Clone() Program {
	clone := p
	clone.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		clone.Weeks[i] = w.clone()
	}
	return clone
}

func (w Week) clone() Week {
	clone := w
	clone.Workouts = make([]Workout, len(w.Workouts))
	for i, wo := range w.Workouts {
		clone.Workouts[i] = wo.clone()
	}
	return clone
}

func (wo Workout) clone() Workout {
	clone := wo
	if wo.Cardio != nil {
		cardio := *wo.Cardio
		clone.Cardio = &cardio
	}
	clone.Exercises = make([]Exercise, len(wo.Exercises))
	for i, ex := range wo.Exercises {
		exClone := ex
		if ex.SetLogs != nil {
			exClone.SetLogs = append([]ExerciseSet(nil), ex.SetLogs...)
		}
		clone.Exercises[i] = exClone
	}
	return clone
}

// WorkoutCount returns the number of workouts across all weeks.
func (p Program) WorkoutCount() int {
	count := 0
	for _, w := range p.Weeks {
		count += len(w.Workouts)
	}
	return count
}
