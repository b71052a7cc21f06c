package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	ledger   *Ledger
	profiles profileSource
}

func NewHandler(ledger *Ledger, profiles profileSource) *Handler {
	return &Handler{
		ledger:   ledger,
		profiles: profiles,
	}
}

type dailyLogResponse struct {
	DailyLog
	Remaining Remaining `json:"remaining"`
}

// HandleGetDailyLog returns the date's log. A date without a log yields an
// empty one carrying the current calorie goal.
func (h *Handler) HandleGetDailyLog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.dailyLog")
	defer span.End()

	date := mux.Vars(r)["date"]
	if !pkg.IsValidDate(date) {
		http.Error(w, ErrInvalidDate.Error(), http.StatusBadRequest)
		return
	}

	dailyLog, ok := h.ledger.DailyLog(date)
	if !ok {
		dailyLog = DailyLog{
			Date:        date,
			Entries:     []FoodEntry{},
			CalorieGoal: h.ledger.Goals().Calories,
		}
	}

	pkg.WriteJSON(w, dailyLogResponse{
		DailyLog:  dailyLog,
		Remaining: h.ledger.RemainingForDate(date),
	}, http.StatusOK)
}

// HandleListDates returns the dates that have a daily log, oldest first.
func (h *Handler) HandleListDates(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.listDates")
	defer span.End()

	pkg.WriteJSON(w, h.ledger.Dates(), http.StatusOK)
}

// HandleLogFood expects food_id, amount, meal_type and an optional unit as form values.
// A non-numeric amount is taken as 0.
func (h *Handler) HandleLogFood(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.logFood")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	req := LogFoodRequest{
		FoodID:   r.Form.Get("food_id"),
		Amount:   pkg.ParseNumberOrZero(r.Form.Get("amount")),
		Unit:     r.Form.Get("unit"),
		MealType: MealType(r.Form.Get("meal_type")),
	}
	if req.FoodID == "" {
		http.Error(w, "error, food id empty", http.StatusBadRequest)
		return
	}

	entry, err := h.ledger.LogFood(ctx, mux.Vars(r)["date"], req)
	if err != nil {
		writeError(w, "log food", err)
		return
	}
	pkg.WriteJSON(w, entry, http.StatusCreated)
}

func (h *Handler) HandleRemoveFoodEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.removeEntry")
	defer span.End()

	vars := mux.Vars(r)
	if err := h.ledger.RemoveFoodEntry(ctx, vars["date"], vars["entryId"]); err != nil {
		writeError(w, "remove food entry", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func (h *Handler) HandleClearDailyLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.clearLog")
	defer span.End()

	if err := h.ledger.ClearDailyLog(ctx, mux.Vars(r)["date"]); err != nil {
		writeError(w, "clear daily log", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func (h *Handler) HandleGetGoals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.goals")
	defer span.End()

	pkg.WriteJSON(w, h.ledger.Goals(), http.StatusOK)
}

func (h *Handler) HandleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.updateGoals")
	defer span.End()

	var update GoalsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update goals, unmarshal json params: %s", err)
		http.Error(w, "invalid goals", http.StatusBadRequest)
		return
	}

	goals, err := h.ledger.UpdateNutritionGoals(ctx, update)
	if err != nil {
		writeError(w, "update goals", err)
		return
	}
	pkg.WriteJSON(w, goals, http.StatusOK)
}

// HandleInitializeGoals derives the goals from the current user profile.
func (h *Handler) HandleInitializeGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.initGoals")
	defer span.End()

	profile, ok := h.profiles.UserProfile()
	if !ok {
		http.Error(w, "no user profile", http.StatusConflict)
		return
	}

	goals, err := h.ledger.InitializeGoals(ctx, profile)
	if err != nil {
		writeError(w, "initialize goals", err)
		return
	}
	pkg.WriteJSON(w, goals, http.StatusOK)
}

func (h *Handler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.preferences")
	defer span.End()

	pkg.WriteJSON(w, h.ledger.Preferences(), http.StatusOK)
}

func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.updatePreferences")
	defer span.End()

	var update PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update preferences, unmarshal json params: %s", err)
		http.Error(w, "invalid preferences", http.StatusBadRequest)
		return
	}

	prefs, err := h.ledger.UpdateNutritionPreferences(ctx, update)
	if err != nil {
		writeError(w, "update preferences", err)
		return
	}
	pkg.WriteJSON(w, prefs, http.StatusOK)
}

func (h *Handler) HandleRecentFoods(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.recentFoods")
	defer span.End()

	pkg.WriteJSON(w, h.ledger.RecentFoods(), http.StatusOK)
}

func (h *Handler) HandleListCustomMeals(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.customMeals")
	defer span.End()

	pkg.WriteJSON(w, h.ledger.CustomMeals(), http.StatusOK)
}

func (h *Handler) HandleAddCustomMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.addCustomMeal")
	defer span.End()

	var input CustomMealInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("add custom meal, unmarshal json params: %s", err)
		http.Error(w, "invalid custom meal", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		http.Error(w, "error, meal name empty", http.StatusBadRequest)
		return
	}

	meal, err := h.ledger.AddCustomMeal(ctx, input)
	if err != nil {
		writeError(w, "add custom meal", err)
		return
	}
	pkg.WriteJSON(w, meal, http.StatusCreated)
}

func (h *Handler) HandleUpdateCustomMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.updateCustomMeal")
	defer span.End()

	var update CustomMealUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update custom meal, unmarshal json params: %s", err)
		http.Error(w, "invalid custom meal update", http.StatusBadRequest)
		return
	}

	meal, err := h.ledger.UpdateCustomMeal(ctx, mux.Vars(r)["mealId"], update)
	if err != nil {
		writeError(w, "update custom meal", err)
		return
	}
	pkg.WriteJSON(w, meal, http.StatusOK)
}

func (h *Handler) HandleRemoveCustomMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.removeCustomMeal")
	defer span.End()

	if err := h.ledger.RemoveCustomMeal(ctx, mux.Vars(r)["mealId"]); err != nil {
		writeError(w, "remove custom meal", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func (h *Handler) HandleAddCustomMealToLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.addCustomMealToLog")
	defer span.End()

	vars := mux.Vars(r)
	entries, err := h.ledger.AddCustomMealToLog(ctx, vars["date"], vars["mealId"])
	if err != nil {
		writeError(w, "add custom meal to log", err)
		return
	}
	pkg.WriteJSON(w, entries, http.StatusCreated)
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case IsNotFound(err):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidMealType),
		errors.Is(err, ErrIncompleteProfile):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
