package nutrition

import (
	"context"
	"errors"
	"math"

	"github.com/2beens/fitledger/internal/progression"
	"github.com/2beens/fitledger/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

const activityFactor = 1.55

var ErrIncompleteProfile = errors.New("profile needs weight, height and age")

// GoalsFromProfile derives daily targets from body metrics:
// Mifflin-St Jeor BMR times a moderate activity factor, adjusted for the goal,
// protein per kg of bodyweight, 30% of calories from fat, carbs for the rest.
// An unknown or empty goal is treated as maintenance.
func GoalsFromProfile(profile progression.UserProfile) (NutritionGoals, error) {
	if profile.Weight <= 0 || profile.Height <= 0 || profile.Age <= 0 {
		return NutritionGoals{}, ErrIncompleteProfile
	}

	bmr := 10*profile.Weight + 6.25*profile.Height - 5*float64(profile.Age) + 5
	tdee := bmr * activityFactor

	calories := tdee
	proteinPerKg := 1.8
	switch profile.Goal {
	case progression.GoalBulking:
		calories = tdee * 1.1
	case progression.GoalCutting:
		calories = tdee * 0.8
		proteinPerKg = 2.2
	}

	goals := NutritionGoals{
		Calories: math.Round(calories),
		Protein:  math.Round(profile.Weight * proteinPerKg),
	}
	goals.Fat = math.Round(goals.Calories * 0.3 / 9)
	goals.Carbs = math.Round((goals.Calories - goals.Protein*4 - goals.Fat*9) / 4)

	return goals, nil
}

// InitializeGoals replaces the ledger goals with the ones derived from profile.
// Existing daily logs keep their frozen calorie goal.
func (l *Ledger) InitializeGoals(ctx context.Context, profile progression.UserProfile) (_ NutritionGoals, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.initializeGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	goals, err := GoalsFromProfile(profile)
	if err != nil {
		return NutritionGoals{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.goals = goals
	log.Debugf("nutrition goals initialized from profile: %+v", goals)

	l.persistLocked()
	return goals, nil
}
