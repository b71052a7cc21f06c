package progression_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/2beens/fitledger/internal/catalog"
	"github.com/2beens/fitledger/internal/progression"
	"github.com/2beens/fitledger/pkg"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*progression.Handler, *progression.Engine) {
	t.Helper()
	e, _ := newEngine(t)
	return progression.NewHandler(e, pkg.NewSequentialIDGenerator("set")), e
}

func serve(handlerFunc http.HandlerFunc, req *http.Request, vars map[string]string) *httptest.ResponseRecorder {
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	handlerFunc.ServeHTTP(rr, req)
	return rr
}

func formRequest(method string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandler_StartCompleteUnlock(t *testing.T) {
	h, e := newHandler(t)

	rr := serve(h.HandleStartProgram, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"programId": "p-two"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var progress progression.UserProgress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
	assert.Equal(t, "p-two", progress.ProgramID)
	assert.Equal(t, 1, progress.CurrentWeek)

	rr = serve(h.HandleUnlockNextWeek, httptest.NewRequest(http.MethodPost, "/", nil), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(h.HandleCompleteWorkout, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"workoutId": "two-w2"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h.HandleCompleteWorkout, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"workoutId": "two-w1"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h.HandleUnlockNextWeek, httptest.NewRequest(http.MethodPost, "/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
	assert.Equal(t, 2, progress.CurrentWeek)

	got, _ := e.UserProgress()
	assert.Equal(t, 2, got.CurrentWeek)
}

func TestHandler_StartUnknownProgram(t *testing.T) {
	h, _ := newHandler(t)
	rr := serve(h.HandleStartProgram, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"programId": "nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_LogWeight_CoercesInvalidInput(t *testing.T) {
	h, e := newHandler(t)

	rr := serve(h.HandleLogWeight, formRequest(http.MethodPost, url.Values{"weight": {"80.5"}}), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(h.HandleStartProgram, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"programId": "p-two"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(h.HandleLogWeight, formRequest(http.MethodPost, url.Values{"weight": {"80.5"}}), nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	rr = serve(h.HandleLogWeight, formRequest(http.MethodPost, url.Values{"weight": {"eighty"}}), nil)
	assert.Equal(t, http.StatusCreated, rr.Code)

	progress, _ := e.UserProgress()
	require.Len(t, progress.WeightLog, 2)
	assert.Equal(t, 80.5, progress.WeightLog[0].Weight)
	assert.Equal(t, 0.0, progress.WeightLog[1].Weight)
}

func TestHandler_ExerciseSets(t *testing.T) {
	h, e := newHandler(t)
	rr := serve(h.HandleStartProgram, httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"programId": "p-three"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(h.HandleLogExerciseSet,
		formRequest(http.MethodPost, url.Values{"weight": {"100"}, "reps": {"x"}}),
		map[string]string{"exerciseId": "squat"},
	)
	require.Equal(t, http.StatusCreated, rr.Code)
	var set catalog.ExerciseSet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &set))
	assert.Equal(t, "set-1", set.ID)
	assert.Equal(t, 100.0, set.Weight)
	assert.Equal(t, 0, set.Reps)

	progress, _ := e.UserProgress()
	require.Len(t, progress.ExerciseProgress["squat"], 1)

	body, err := json.Marshal(map[string]any{"weight": 120, "completed": true})
	require.NoError(t, err)
	rr = serve(h.HandleUpdateExerciseSet,
		httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body)),
		map[string]string{"exerciseId": "bench", "setId": "s-9"},
	)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &set))
	assert.Equal(t, catalog.ExerciseSet{ID: "s-9", SetNumber: 1, Weight: 120, Completed: true}, set)

	rr = serve(h.HandleUpdateExerciseSet,
		httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body)),
		map[string]string{"exerciseId": "nope", "setId": "s-9"},
	)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h.HandleUpdateExerciseSet,
		httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{bad")),
		map[string]string{"exerciseId": "bench", "setId": "s-9"},
	)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h.HandleExerciseHistory, httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"exerciseId": "squat"})
	require.Equal(t, http.StatusOK, rr.Code)
	var history progression.ExerciseHistory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	assert.Len(t, history.Stats, 1)
}

func TestHandler_ProfileAndState(t *testing.T) {
	h, _ := newHandler(t)

	rr := serve(h.HandleUpdateProfile,
		httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"Sam","weight":80,"goal":"bulking"}`)),
		nil,
	)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile progression.UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, progression.UserProfile{Name: "Sam", Weight: 80, Goal: progression.GoalBulking}, profile)

	rr = serve(h.HandleUpdateProfile,
		httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"goal":"gains"}`)),
		nil,
	)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(h.HandleSnapshot, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(h.HandleGetProgression, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(t, "null", string(state["activeProgram"]))
	assert.Equal(t, "null", string(state["userProgress"]))
	assert.NotEqual(t, "null", string(state["userProfile"]))

	rr = serve(h.HandleListPrograms, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var programs []catalog.Program
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &programs))
	assert.Len(t, programs, 2)

	rr = serve(h.HandleResetProgress, httptest.NewRequest(http.MethodDelete, "/", nil), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
