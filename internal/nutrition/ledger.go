package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/2beens/fitledger/internal/aggregate"
	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/storage"
	"github.com/2beens/fitledger/internal/telemetry/metrics"
	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"

	log "github.com/sirupsen/logrus"
)

const MaxRecentFoods = 10

var (
	ErrDailyLogNotFound   = errors.New("daily log not found")
	ErrCustomMealNotFound = errors.New("custom meal not found")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMealType    = errors.New("invalid meal type")
)

// Ledger keeps the per-day nutrition logs, goals, preferences, recently
// used foods and custom meals. Every mutation hands a snapshot of the
// whole state to the persister.
type Ledger struct {
	foods          foodProvider
	clock          pkg.Clock
	ids            pkg.IDGenerator
	persister      statePersister
	metricsManager *metrics.Manager

	mu          sync.Mutex
	dailyLogs   map[string]*DailyLog
	goals       NutritionGoals
	preferences NutritionPreferences
	recentFoods []RecentFood
	customMeals []CustomMeal
}

type LedgerParams struct {
	Foods          foodProvider
	Clock          pkg.Clock
	IDs            pkg.IDGenerator
	Persister      statePersister
	MetricsManager *metrics.Manager
}

func NewLedger(params LedgerParams) *Ledger {
	clock := params.Clock
	if clock == nil {
		clock = pkg.SystemClock{}
	}
	ids := params.IDs
	if ids == nil {
		ids = pkg.UUIDGenerator{}
	}
	return &Ledger{
		foods:          params.Foods,
		clock:          clock,
		ids:            ids,
		persister:      params.Persister,
		metricsManager: params.MetricsManager,
		dailyLogs:      make(map[string]*DailyLog),
		goals:          DefaultGoals,
		preferences:    DefaultPreferences,
		recentFoods:    []RecentFood{},
		customMeals:    []CustomMeal{},
	}
}

// Restore replaces the in-memory state with the last persisted snapshot.
// A missing snapshot keeps the defaults.
func (l *Ledger) Restore(ctx context.Context, loader stateLoader) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.restore")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := loader.Load(ctx, storage.KeyNutrition)
	if errors.Is(err, storage.ErrNotFound) {
		log.Debugln("no persisted nutrition state, starting with defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load nutrition state: %w", err)
	}

	st := state{
		Goals:       DefaultGoals,
		Preferences: DefaultPreferences,
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode nutrition state: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.dailyLogs = st.DailyLogs
	if l.dailyLogs == nil {
		l.dailyLogs = make(map[string]*DailyLog)
	}
	l.goals = st.Goals
	l.preferences = st.Preferences
	l.recentFoods = append([]RecentFood{}, st.RecentFoods...)
	l.customMeals = append([]CustomMeal{}, st.CustomMeals...)
	return nil
}

// AddFoodEntry appends a prepared entry to the date's log, creating the log
// on first use. A missing id or timestamp is filled in.
func (l *Ledger) AddFoodEntry(ctx context.Context, date string, entry FoodEntry) (_ FoodEntry, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.addFoodEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !pkg.IsValidDate(date) {
		return FoodEntry{}, fmt.Errorf("add food entry [%s]: %w", date, ErrInvalidDate)
	}
	if entry.MealType != "" && !entry.MealType.IsValid() {
		return FoodEntry{}, fmt.Errorf("add food entry [%s]: %w", entry.MealType, ErrInvalidMealType)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry = l.addFoodEntryLocked(date, entry)
	l.persistLocked()
	return entry, nil
}

// LogFood resolves the food, freezes its nutrition for the given amount and
// adds the resulting entry to the date's log.
func (l *Ledger) LogFood(ctx context.Context, date string, req LogFoodRequest) (_ FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.logFood")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !pkg.IsValidDate(date) {
		return FoodEntry{}, fmt.Errorf("log food [%s]: %w", date, ErrInvalidDate)
	}
	if !req.MealType.IsValid() {
		return FoodEntry{}, fmt.Errorf("log food [%s]: %w", req.MealType, ErrInvalidMealType)
	}

	food, err := l.foods.Food(ctx, req.FoodID)
	if err != nil {
		return FoodEntry{}, fmt.Errorf("log food: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = food.ServingUnit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.addFoodEntryLocked(date, FoodEntry{
		FoodID:    food.ID,
		Name:      food.Name,
		Amount:    req.Amount,
		Unit:      unit,
		MealType:  req.MealType,
		Nutrition: food.NutritionFor(req.Amount),
	})
	l.persistLocked()
	return entry, nil
}

func (l *Ledger) addFoodEntryLocked(date string, entry FoodEntry) FoodEntry {
	if entry.ID == "" {
		entry.ID = l.ids.NewID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.clock.Now()
	}

	dailyLog, ok := l.dailyLogs[date]
	if !ok {
		dailyLog = &DailyLog{
			Date:        date,
			Entries:     []FoodEntry{},
			CalorieGoal: l.goals.Calories,
		}
		l.dailyLogs[date] = dailyLog
	}

	dailyLog.Entries = append(dailyLog.Entries, entry)
	dailyLog.TotalNutrition = aggregate.Total(dailyLog.Entries)
	l.touchRecentLocked(entry)

	if l.metricsManager != nil {
		l.metricsManager.CounterFoodEntries.WithLabelValues("add").Inc()
	}
	return entry
}

func (l *Ledger) touchRecentLocked(entry FoodEntry) {
	recent := RecentFood{
		FoodID:     entry.FoodID,
		Name:       entry.Name,
		LastAmount: entry.Amount,
		Unit:       entry.Unit,
		LastUsed:   entry.Timestamp,
	}

	updated := make([]RecentFood, 0, MaxRecentFoods)
	updated = append(updated, recent)
	for _, rf := range l.recentFoods {
		if rf.FoodID == entry.FoodID {
			continue
		}
		if len(updated) == MaxRecentFoods {
			break
		}
		updated = append(updated, rf)
	}
	l.recentFoods = updated
}

// RemoveFoodEntry drops the entry from the date's log and refolds the totals.
// An unknown entry id leaves the log as it is.
func (l *Ledger) RemoveFoodEntry(ctx context.Context, date, entryID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.removeFoodEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	dailyLog, ok := l.dailyLogs[date]
	if !ok {
		return fmt.Errorf("remove entry from [%s]: %w", date, ErrDailyLogNotFound)
	}

	kept := make([]FoodEntry, 0, len(dailyLog.Entries))
	for _, e := range dailyLog.Entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	removed := len(dailyLog.Entries) - len(kept)
	dailyLog.Entries = kept
	dailyLog.TotalNutrition = aggregate.Total(dailyLog.Entries)

	if removed == 0 {
		log.Debugf("entry [%s] not in log [%s]", entryID, date)
	} else if l.metricsManager != nil {
		l.metricsManager.CounterFoodEntries.WithLabelValues("remove").Add(float64(removed))
	}

	l.persistLocked()
	return nil
}

// ClearDailyLog empties the date's log, keeping its frozen calorie goal.
func (l *Ledger) ClearDailyLog(ctx context.Context, date string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.clearDailyLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	dailyLog, ok := l.dailyLogs[date]
	if !ok {
		return fmt.Errorf("clear log [%s]: %w", date, ErrDailyLogNotFound)
	}

	l.dailyLogs[date] = &DailyLog{
		Date:           date,
		Entries:        []FoodEntry{},
		TotalNutrition: aggregate.Total([]FoodEntry{}),
		CalorieGoal:    dailyLog.CalorieGoal,
	}

	l.persistLocked()
	return nil
}

func (l *Ledger) UpdateNutritionGoals(ctx context.Context, update GoalsUpdate) (_ NutritionGoals, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.updateGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.goals = l.goals.merge(update)
	l.persistLocked()
	return l.goals, nil
}

func (l *Ledger) UpdateNutritionPreferences(ctx context.Context, update PreferencesUpdate) (_ NutritionPreferences, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.updatePreferences")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.preferences = l.preferences.merge(update)
	l.persistLocked()
	return l.preferencesLocked(), nil
}

// AddCustomMeal stores a reusable meal, snapshotting its total nutrition
// from the current food reference.
func (l *Ledger) AddCustomMeal(ctx context.Context, input CustomMealInput) (_ CustomMeal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.addCustomMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !input.MealType.IsValid() {
		return CustomMeal{}, fmt.Errorf("add custom meal [%s]: %w", input.MealType, ErrInvalidMealType)
	}

	total, err := l.mealNutrition(ctx, input.Foods)
	if err != nil {
		return CustomMeal{}, fmt.Errorf("add custom meal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	meal := CustomMeal{
		ID:             l.ids.NewID(),
		Name:           input.Name,
		MealType:       input.MealType,
		Foods:          append([]MealFood{}, input.Foods...),
		TotalNutrition: total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	l.customMeals = append(l.customMeals, meal)

	l.persistLocked()
	return meal.clone(), nil
}

func (l *Ledger) UpdateCustomMeal(ctx context.Context, mealID string, update CustomMealUpdate) (_ CustomMeal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.updateCustomMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if update.MealType != nil && !update.MealType.IsValid() {
		return CustomMeal{}, fmt.Errorf("update custom meal [%s]: %w", *update.MealType, ErrInvalidMealType)
	}

	var total aggregate.Nutrition
	if update.Foods != nil {
		if total, err = l.mealNutrition(ctx, *update.Foods); err != nil {
			return CustomMeal{}, fmt.Errorf("update custom meal: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.customMealIndexLocked(mealID)
	if idx < 0 {
		return CustomMeal{}, fmt.Errorf("update custom meal [%s]: %w", mealID, ErrCustomMealNotFound)
	}

	meal := l.customMeals[idx]
	if update.Name != nil {
		meal.Name = *update.Name
	}
	if update.MealType != nil {
		meal.MealType = *update.MealType
	}
	if update.Foods != nil {
		meal.Foods = append([]MealFood{}, (*update.Foods)...)
		meal.TotalNutrition = total
	}
	meal.UpdatedAt = l.clock.Now()
	l.customMeals[idx] = meal

	l.persistLocked()
	return meal.clone(), nil
}

func (l *Ledger) RemoveCustomMeal(ctx context.Context, mealID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.removeCustomMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.customMealIndexLocked(mealID)
	if idx < 0 {
		return fmt.Errorf("remove custom meal [%s]: %w", mealID, ErrCustomMealNotFound)
	}
	l.customMeals = append(l.customMeals[:idx], l.customMeals[idx+1:]...)

	l.persistLocked()
	return nil
}

// AddCustomMealToLog expands the meal into one entry per constituent food,
// computed from the current food reference rather than the meal's snapshot.
// All foods are resolved first: an unknown food adds nothing.
func (l *Ledger) AddCustomMealToLog(ctx context.Context, date, mealID string) (_ []FoodEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.ledger.addCustomMealToLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !pkg.IsValidDate(date) {
		return nil, fmt.Errorf("add custom meal to log [%s]: %w", date, ErrInvalidDate)
	}

	meal, found := l.CustomMeal(mealID)
	if !found {
		return nil, fmt.Errorf("add custom meal to log [%s]: %w", mealID, ErrCustomMealNotFound)
	}

	pending := make([]FoodEntry, 0, len(meal.Foods))
	for _, mf := range meal.Foods {
		food, err := l.currentFood(ctx, mf.FoodID)
		if err != nil {
			return nil, fmt.Errorf("add custom meal [%s] to log: %w", mealID, err)
		}
		pending = append(pending, FoodEntry{
			FoodID:    food.ID,
			Name:      food.Name,
			Amount:    mf.Amount,
			Unit:      food.ServingUnit,
			MealType:  meal.MealType,
			Nutrition: food.NutritionFor(mf.Amount),
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	added := make([]FoodEntry, 0, len(pending))
	for _, entry := range pending {
		added = append(added, l.addFoodEntryLocked(date, entry))
	}

	l.persistLocked()
	return added, nil
}

func (l *Ledger) mealNutrition(ctx context.Context, mealFoods []MealFood) (aggregate.Nutrition, error) {
	values := make([]aggregate.Nutrition, 0, len(mealFoods))
	for _, mf := range mealFoods {
		food, err := l.currentFood(ctx, mf.FoodID)
		if err != nil {
			return aggregate.Nutrition{}, err
		}
		values = append(values, food.NutritionFor(mf.Amount))
	}
	return aggregate.Total(values), nil
}

// currentFood reads the food past any provider cache. Custom meal totals and
// expansions always use the current reference data.
func (l *Ledger) currentFood(ctx context.Context, id string) (foods.FoodItem, error) {
	if refresher, ok := l.foods.(foodRefresher); ok {
		return refresher.Refresh(ctx, id)
	}
	return l.foods.Food(ctx, id)
}

func (l *Ledger) customMealIndexLocked(mealID string) int {
	for i, m := range l.customMeals {
		if m.ID == mealID {
			return i
		}
	}
	return -1
}

func (l *Ledger) DailyLog(date string) (DailyLog, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dailyLog, ok := l.dailyLogs[date]
	if !ok {
		return DailyLog{}, false
	}
	return dailyLog.clone(), true
}

// Dates returns the dates that have a log, oldest first.
func (l *Ledger) Dates() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	dates := make([]string, 0, len(l.dailyLogs))
	for date := range l.dailyLogs {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (l *Ledger) Goals() NutritionGoals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.goals
}

func (l *Ledger) Preferences() NutritionPreferences {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.preferencesLocked()
}

func (l *Ledger) preferencesLocked() NutritionPreferences {
	prefs := l.preferences
	prefs.Allergies = append([]string{}, l.preferences.Allergies...)
	return prefs
}

// RecentFoods returns the recently logged foods, most recent first.
func (l *Ledger) RecentFoods() []RecentFood {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]RecentFood{}, l.recentFoods...)
}

func (l *Ledger) CustomMeals() []CustomMeal {
	l.mu.Lock()
	defer l.mu.Unlock()
	meals := make([]CustomMeal, len(l.customMeals))
	for i, m := range l.customMeals {
		meals[i] = m.clone()
	}
	return meals
}

func (l *Ledger) CustomMeal(mealID string) (CustomMeal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.customMealIndexLocked(mealID)
	if idx < 0 {
		return CustomMeal{}, false
	}
	return l.customMeals[idx].clone(), true
}

// RemainingForDate subtracts the day's totals from the goals. Calories are
// measured against the log's frozen calorie goal when the log exists.
func (l *Ledger) RemainingForDate(date string) Remaining {
	l.mu.Lock()
	defer l.mu.Unlock()

	calorieGoal := l.goals.Calories
	var total aggregate.Nutrition
	if dailyLog, ok := l.dailyLogs[date]; ok {
		calorieGoal = dailyLog.CalorieGoal
		total = dailyLog.TotalNutrition
	}

	return Remaining{
		Date:     date,
		Calories: calorieGoal - total.Calories,
		Protein:  pkg.RoundTo(l.goals.Protein-total.Protein, 1),
		Carbs:    pkg.RoundTo(l.goals.Carbs-total.Carbs, 1),
		Fat:      pkg.RoundTo(l.goals.Fat-total.Fat, 1),
	}
}

func (l *Ledger) persistLocked() {
	if l.persister == nil {
		return
	}
	data, err := json.Marshal(state{
		DailyLogs:   l.dailyLogs,
		Goals:       l.goals,
		Preferences: l.preferences,
		RecentFoods: l.recentFoods,
		CustomMeals: l.customMeals,
	})
	if err != nil {
		log.Errorf("marshal nutrition state: %s", err)
		return
	}
	l.persister.Enqueue(storage.KeyNutrition, data)
}

// IsNotFound reports whether err is one of the lookup failures of the ledger.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDailyLogNotFound) ||
		errors.Is(err, ErrCustomMealNotFound) ||
		errors.Is(err, foods.ErrFoodNotFound)
}
