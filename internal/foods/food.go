// Package foods is the food reference table: per-100-unit nutrition figures looked up by id.
package foods

import (
	"context"
	"errors"

	"github.com/2beens/fitledger/internal/aggregate"
)

var ErrFoodNotFound = errors.New("food not found")

type FoodItem struct {
	ID          string              `json:"id" toml:"id"`
	Name        string              `json:"name" toml:"name"`
	ServingSize float64             `json:"servingSize" toml:"serving_size"`
	ServingUnit string              `json:"servingUnit" toml:"serving_unit"`
	Per100      aggregate.Nutrition `json:"per100" toml:"per100"`
}

// NutritionFor returns the nutrition of amount units of the food.
func (f FoodItem) NutritionFor(amount float64) aggregate.Nutrition {
	return aggregate.Scale(f.Per100, amount)
}

// Provider looks up foods by id. Implementations return ErrFoodNotFound for unknown ids.
type Provider interface {
	Food(ctx context.Context, id string) (FoodItem, error)
}
