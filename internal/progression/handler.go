package progression

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitledger/internal/catalog"
	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	engine *Engine
	ids    pkg.IDGenerator
}

func NewHandler(engine *Engine, ids pkg.IDGenerator) *Handler {
	return &Handler{
		engine: engine,
		ids:    ids,
	}
}

func (h *Handler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.programs")
	defer span.End()

	pkg.WriteJSON(w, h.engine.Programs(), http.StatusOK)
}

type progressionResponse struct {
	ActiveProgram *catalog.Program `json:"activeProgram"`
	UserProgress  *UserProgress    `json:"userProgress"`
	UserProfile   *UserProfile     `json:"userProfile"`
}

func (h *Handler) HandleGetProgression(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.get")
	defer span.End()

	resp := progressionResponse{}
	if program, ok := h.engine.ActiveProgram(); ok {
		resp.ActiveProgram = &program
	}
	if progress, ok := h.engine.UserProgress(); ok {
		resp.UserProgress = &progress
	}
	if profile, ok := h.engine.UserProfile(); ok {
		resp.UserProfile = &profile
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.snapshot")
	defer span.End()

	snapshot, err := h.engine.Snapshot()
	if err != nil {
		writeError(w, "progression snapshot", err)
		return
	}
	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.exerciseHistory")
	defer span.End()

	history, err := h.engine.ExerciseHistory(mux.Vars(r)["exerciseId"])
	if err != nil {
		writeError(w, "exercise history", err)
		return
	}
	pkg.WriteJSON(w, history, http.StatusOK)
}

func (h *Handler) HandleSetActiveProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.setActive")
	defer span.End()

	if err := h.engine.SetActiveProgram(ctx, mux.Vars(r)["programId"]); err != nil {
		writeError(w, "set active program", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func (h *Handler) HandleStartProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.start")
	defer span.End()

	if err := h.engine.StartProgram(ctx, mux.Vars(r)["programId"]); err != nil {
		writeError(w, "start program", err)
		return
	}

	progress, _ := h.engine.UserProgress()
	pkg.WriteJSON(w, progress, http.StatusCreated)
}

func (h *Handler) HandleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.completeWorkout")
	defer span.End()

	if err := h.engine.CompleteWorkout(ctx, mux.Vars(r)["workoutId"]); err != nil {
		writeError(w, "complete workout", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func (h *Handler) HandleUnlockNextWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.unlockNextWeek")
	defer span.End()

	if err := h.engine.UnlockNextWeek(ctx); err != nil {
		writeError(w, "unlock next week", err)
		return
	}

	progress, _ := h.engine.UserProgress()
	pkg.WriteJSON(w, progress, http.StatusOK)
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.updateProfile")
	defer span.End()

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update profile, unmarshal json params: %s", err)
		http.Error(w, "invalid profile", http.StatusBadRequest)
		return
	}

	profile, err := h.engine.UpdateUserProfile(ctx, update)
	if err != nil {
		log.Errorf("update profile: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}
	pkg.WriteJSON(w, profile, http.StatusOK)
}

// HandleLogWeight expects a "weight" form value. Non-numeric input is logged as 0.
func (h *Handler) HandleLogWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.logWeight")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	weight := pkg.ParseNumberOrZero(r.Form.Get("weight"))
	if err := h.engine.LogWeight(ctx, weight); err != nil {
		writeError(w, "log weight", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusCreated)
}

// HandleLogExerciseSet expects "weight" and "reps" form values.
func (h *Handler) HandleLogExerciseSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.logExerciseSet")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	set := catalog.ExerciseSet{
		ID:        h.ids.NewID(),
		SetNumber: pkg.ParseIntOrZero(r.Form.Get("set_number")),
		Weight:    pkg.ParseNumberOrZero(r.Form.Get("weight")),
		Reps:      pkg.ParseIntOrZero(r.Form.Get("reps")),
		Completed: true,
	}
	if err := h.engine.LogExerciseSet(ctx, mux.Vars(r)["exerciseId"], set); err != nil {
		writeError(w, "log exercise set", err)
		return
	}
	pkg.WriteJSON(w, set, http.StatusCreated)
}

func (h *Handler) HandleUpdateExerciseSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.updateExerciseSet")
	defer span.End()

	var update ExerciseSetUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update exercise set, unmarshal json params: %s", err)
		http.Error(w, "invalid set update", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	set, err := h.engine.UpdateExerciseSet(ctx, vars["exerciseId"], vars["setId"], update)
	if err != nil {
		writeError(w, "update exercise set", err)
		return
	}
	pkg.WriteJSON(w, set, http.StatusOK)
}

func (h *Handler) HandleResetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.reset")
	defer span.End()

	if err := h.engine.ResetProgress(ctx); err != nil {
		writeError(w, "reset progress", err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "ok", http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidProgramID),
		errors.Is(err, ErrWorkoutNotFound),
		errors.Is(err, ErrExerciseNotFound):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNoActiveProgram),
		errors.Is(err, ErrNoNextWeek),
		errors.Is(err, ErrWeekLocked):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
