//go:build integration

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/fitledger/internal/progression"
	"github.com/2beens/fitledger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestProgressionPersistsToPostgres() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, "POST", "/progression/start/shred-6", "", "")
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.doRequest(ctx, "POST", "/progression/workouts/sh-w1-d1/complete", "", "")
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = s.doRequest(ctx, "POST", "/progression/workouts/lb-w1-d1/complete", "", "")
	assert.Equal(t, http.StatusNotFound, status)

	store := storage.NewPostgresStore(s.pgPool)
	var persisted struct {
		UserProgress *progression.UserProgress `json:"userProgress"`
	}
	require.Eventually(t, func() bool {
		data, err := store.Load(ctx, storage.KeyProgression)
		if err != nil {
			return false
		}
		if err := json.Unmarshal(data, &persisted); err != nil {
			return false
		}
		return persisted.UserProgress != nil && len(persisted.UserProgress.CompletedWorkouts) == 1
	}, 10*time.Second, 100*time.Millisecond)

	assert.Equal(t, "shred-6", persisted.UserProgress.ProgramID)
	assert.Equal(t, []string{"sh-w1-d1"}, persisted.UserProgress.CompletedWorkouts)

	var updatedAt time.Time
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT updated_at FROM app_state WHERE key = $1`, storage.KeyProgression,
	).Scan(&updatedAt))
	assert.WithinDuration(t, time.Now(), updatedAt, time.Minute)
}
