// Package aggregate folds nutrition-bearing records into summed totals.
// It is pure and stateless, shared by the nutrition ledger and the food reference table.
package aggregate

import (
	"math"

	"github.com/2beens/fitledger/pkg"
)

// Nutrition is a nutrition quantity. Fiber and Sugar are optional:
// nil means "not defined", which is different from 0.
type Nutrition struct {
	Calories float64  `json:"calories" toml:"calories"`
	Protein  float64  `json:"protein" toml:"protein"`
	Carbs    float64  `json:"carbs" toml:"carbs"`
	Fat      float64  `json:"fat" toml:"fat"`
	Fiber    *float64 `json:"fiber,omitempty" toml:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty" toml:"sugar,omitempty"`
}

// Carrier is anything that carries a nutrition quantity, e.g. a food entry.
type Carrier interface {
	NutritionValue() Nutrition
}

func (n Nutrition) NutritionValue() Nutrition {
	return n
}

// Total sums the nutrition of all items.
// Calories are rounded to whole units, protein/carbs/fat to 1 decimal.
// Fiber and sugar are summed (missing values count as 0) only when at least
// one item defines them, otherwise they stay nil.
func Total[T Carrier](items []T) Nutrition {
	var total Nutrition
	var fiber, sugar float64
	var hasFiber, hasSugar bool

	for _, item := range items {
		n := item.NutritionValue()
		total.Calories += n.Calories
		total.Protein += n.Protein
		total.Carbs += n.Carbs
		total.Fat += n.Fat
		if n.Fiber != nil {
			hasFiber = true
			fiber += *n.Fiber
		}
		if n.Sugar != nil {
			hasSugar = true
			sugar += *n.Sugar
		}
	}

	if hasFiber {
		total.Fiber = Float(fiber)
	}
	if hasSugar {
		total.Sugar = Float(sugar)
	}

	return Round(total)
}

// Scale computes the nutrition of amount units of a food whose figures are given per 100 units.
func Scale(per100 Nutrition, amount float64) Nutrition {
	factor := amount / 100
	scaled := Nutrition{
		Calories: per100.Calories * factor,
		Protein:  per100.Protein * factor,
		Carbs:    per100.Carbs * factor,
		Fat:      per100.Fat * factor,
	}
	if per100.Fiber != nil {
		scaled.Fiber = Float(*per100.Fiber * factor)
	}
	if per100.Sugar != nil {
		scaled.Sugar = Float(*per100.Sugar * factor)
	}
	return Round(scaled)
}

// Round applies the numeric policy: whole calories, 1-decimal macros.
func Round(n Nutrition) Nutrition {
	rounded := Nutrition{
		Calories: math.Round(n.Calories),
		Protein:  pkg.RoundTo(n.Protein, 1),
		Carbs:    pkg.RoundTo(n.Carbs, 1),
		Fat:      pkg.RoundTo(n.Fat, 1),
	}
	if n.Fiber != nil {
		rounded.Fiber = Float(pkg.RoundTo(*n.Fiber, 1))
	}
	if n.Sugar != nil {
		rounded.Sugar = Float(pkg.RoundTo(*n.Sugar, 1))
	}
	return rounded
}

// Float returns a pointer to v, for the optional fields.
func Float(v float64) *float64 {
	return &v
}
