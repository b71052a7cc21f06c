package nutrition

import (
	"time"

	"github.com/2beens/fitledger/internal/aggregate"
)

type MealType string

const (
	MealTypeBreakfast   MealType = "breakfast"
	MealTypeBrunch      MealType = "brunch"
	MealTypeLunch       MealType = "lunch"
	MealTypePreWorkout  MealType = "pre-workout"
	MealTypePostWorkout MealType = "post-workout"
	MealTypeDinner      MealType = "dinner"
	MealTypeSnack       MealType = "snack"
)

func (mt MealType) IsValid() bool {
	switch mt {
	case MealTypeBreakfast, MealTypeBrunch, MealTypeLunch,
		MealTypePreWorkout, MealTypePostWorkout, MealTypeDinner, MealTypeSnack:
		return true
	default:
		return false
	}
}

// FoodEntry is one logged food. Name and Nutrition are frozen at entry time
// and never re-derived from the food reference.
type FoodEntry struct {
	ID        string              `json:"id"`
	FoodID    string              `json:"foodId"`
	Name      string              `json:"name"`
	Amount    float64             `json:"amount"`
	Unit      string              `json:"unit"`
	MealType  MealType            `json:"mealType"`
	Timestamp time.Time           `json:"timestamp"`
	Nutrition aggregate.Nutrition `json:"nutrition"`
}

func (e FoodEntry) NutritionValue() aggregate.Nutrition {
	return e.Nutrition
}

// LogFoodRequest describes a food to be logged by reference.
// An empty Unit falls back to the food's serving unit.
type LogFoodRequest struct {
	FoodID   string   `json:"foodId"`
	Amount   float64  `json:"amount"`
	Unit     string   `json:"unit,omitempty"`
	MealType MealType `json:"mealType"`
}

// DailyLog is the nutrition ledger for one calendar date.
// TotalNutrition is always the fold of Entries, CalorieGoal is the goal
// in effect when the log was created.
type DailyLog struct {
	Date           string              `json:"date"`
	Entries        []FoodEntry         `json:"entries"`
	TotalNutrition aggregate.Nutrition `json:"totalNutrition"`
	CalorieGoal    float64             `json:"calorieGoal"`
}

func (dl *DailyLog) clone() DailyLog {
	clone := *dl
	clone.Entries = append([]FoodEntry{}, dl.Entries...)
	return clone
}

type MealFood struct {
	FoodID string  `json:"foodId"`
	Amount float64 `json:"amount"`
}

type CustomMeal struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	MealType       MealType            `json:"mealType"`
	Foods          []MealFood          `json:"foods"`
	TotalNutrition aggregate.Nutrition `json:"totalNutrition"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (m CustomMeal) clone() CustomMeal {
	m.Foods = append([]MealFood{}, m.Foods...)
	return m
}

type CustomMealInput struct {
	Name     string     `json:"name"`
	MealType MealType   `json:"mealType"`
	Foods    []MealFood `json:"foods"`
}

// CustomMealUpdate is a partial update; a non-nil Foods replaces the list
// and re-snapshots the meal's total nutrition.
type CustomMealUpdate struct {
	Name     *string     `json:"name,omitempty"`
	MealType *MealType   `json:"mealType,omitempty"`
	Foods    *[]MealFood `json:"foods,omitempty"`
}

type NutritionGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultGoals are used until goals are set or derived from a profile.
var DefaultGoals = NutritionGoals{
	Calories: 2000,
	Protein:  150,
	Carbs:    200,
	Fat:      65,
}

type GoalsUpdate struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

func (g NutritionGoals) merge(u GoalsUpdate) NutritionGoals {
	if u.Calories != nil {
		g.Calories = *u.Calories
	}
	if u.Protein != nil {
		g.Protein = *u.Protein
	}
	if u.Carbs != nil {
		g.Carbs = *u.Carbs
	}
	if u.Fat != nil {
		g.Fat = *u.Fat
	}
	return g
}

type NutritionPreferences struct {
	DietType    string   `json:"dietType"`
	Allergies   []string `json:"allergies"`
	MealsPerDay int      `json:"mealsPerDay"`
	TrackFiber  bool     `json:"trackFiber"`
	TrackSugar  bool     `json:"trackSugar"`
	WaterGoalMl int      `json:"waterGoalMl"`
}

var DefaultPreferences = NutritionPreferences{
	DietType:    "standard",
	Allergies:   []string{},
	MealsPerDay: 3,
	WaterGoalMl: 2500,
}

type PreferencesUpdate struct {
	DietType    *string   `json:"dietType,omitempty"`
	Allergies   *[]string `json:"allergies,omitempty"`
	MealsPerDay *int      `json:"mealsPerDay,omitempty"`
	TrackFiber  *bool     `json:"trackFiber,omitempty"`
	TrackSugar  *bool     `json:"trackSugar,omitempty"`
	WaterGoalMl *int      `json:"waterGoalMl,omitempty"`
}

func (p NutritionPreferences) merge(u PreferencesUpdate) NutritionPreferences {
	if u.DietType != nil {
		p.DietType = *u.DietType
	}
	if u.Allergies != nil {
		p.Allergies = append([]string{}, (*u.Allergies)...)
	}
	if u.MealsPerDay != nil {
		p.MealsPerDay = *u.MealsPerDay
	}
	if u.TrackFiber != nil {
		p.TrackFiber = *u.TrackFiber
	}
	if u.TrackSugar != nil {
		p.TrackSugar = *u.TrackSugar
	}
	if u.WaterGoalMl != nil {
		p.WaterGoalMl = *u.WaterGoalMl
	}
	return p
}

// RecentFood is an entry of the most-recently-logged foods list.
type RecentFood struct {
	FoodID     string    `json:"foodId"`
	Name       string    `json:"name"`
	LastAmount float64   `json:"lastAmount"`
	Unit       string    `json:"unit"`
	LastUsed   time.Time `json:"lastUsed"`
}

// Remaining is what is left of the day's goals. Values go negative when a goal is exceeded.
type Remaining struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type state struct {
	DailyLogs   map[string]*DailyLog `json:"dailyLogs"`
	Goals       NutritionGoals       `json:"nutritionGoals"`
	Preferences NutritionPreferences `json:"nutritionPreferences"`
	RecentFoods []RecentFood         `json:"recentFoods"`
	CustomMeals []CustomMeal         `json:"customMeals"`
}
