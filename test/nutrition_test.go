//go:build integration

package test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestNutritionWithFoodsFromDB() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, "POST", "/nutrition/logs/2024-02-01/entries",
		url.Values{"food_id": {"food-1"}, "amount": {"150"}, "meal_type": {"dinner"}}.Encode(),
		"application/x-www-form-urlencoded",
	)
	require.Equal(t, http.StatusCreated, status, string(body))
	var entry nutrition.FoodEntry
	s.decode(body, &entry)
	assert.Equal(t, "Chicken Breast", entry.Name)
	assert.Equal(t, 248.0, entry.Nutrition.Calories)

	status, _ = s.doRequest(ctx, "POST", "/nutrition/logs/2024-02-01/entries",
		url.Values{"food_id": {"food-missing"}, "amount": {"150"}, "meal_type": {"dinner"}}.Encode(),
		"application/x-www-form-urlencoded",
	)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.doRequest(ctx, "POST", "/nutrition/meals",
		`{"name":"Rice bowl","mealType":"lunch","foods":[{"foodId":"food-1","amount":100},{"foodId":"food-2","amount":150}]}`,
		"application/json",
	)
	require.Equal(t, http.StatusCreated, status, string(body))
	var meal nutrition.CustomMeal
	s.decode(body, &meal)

	status, body = s.doRequest(ctx, "POST", "/nutrition/logs/2024-02-02/meals/"+meal.ID, "", "")
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.doRequest(ctx, "GET", "/nutrition/logs/2024-02-02", "", "")
	require.Equal(t, http.StatusOK, status)
	var dailyLog nutrition.DailyLog
	s.decode(body, &dailyLog)
	assert.Len(t, dailyLog.Entries, 2)
	assert.Equal(t, meal.TotalNutrition.Calories, dailyLog.TotalNutrition.Calories)
}

func (s *IntegrationTestSuite) TestFoodsRepo() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	repo := foods.NewRepo(s.pgPool)
	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, items)

	err = repo.Insert(ctx, items[0])
	assert.True(t, errors.Is(err, foods.ErrFoodExists))

	renamed := items[0]
	renamed.Name = "Renamed"
	require.NoError(t, repo.Upsert(ctx, renamed))
	got, err := repo.Food(ctx, renamed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.NoError(t, repo.Upsert(ctx, items[0]))

	_, err = repo.Food(ctx, "food-missing")
	assert.True(t, errors.Is(err, foods.ErrFoodNotFound))
}
