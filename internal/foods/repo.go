package foods

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitledger/internal/aggregate"
	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	_ Provider = (*Repo)(nil)

	ErrFoodExists = errors.New("food already exists")
)

// Repo reads the food reference table from postgres (table food_item).
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Food(ctx context.Context, id string) (_ FoodItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.foods.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, sugar
			FROM food_item
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return FoodItem{}, err
	}
	defer rows.Close()

	items, err := rows2foods(rows)
	if err != nil {
		return FoodItem{}, err
	}
	if len(items) != 1 {
		return FoodItem{}, fmt.Errorf("%w: [%s]", ErrFoodNotFound, id)
	}
	return items[0], nil
}

func (r *Repo) List(ctx context.Context) (_ []FoodItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.foods.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, sugar
			FROM food_item
			ORDER BY id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2foods(rows)
}

// Upsert inserts the food or overwrites the existing one with the same id.
func (r *Repo) Upsert(ctx context.Context, item FoodItem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.foods.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", item.ID))

	if item.ID == "" {
		return errors.New("food id empty")
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO food_item
				(id, name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, sugar)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				serving_size = EXCLUDED.serving_size,
				serving_unit = EXCLUDED.serving_unit,
				calories = EXCLUDED.calories,
				protein = EXCLUDED.protein,
				carbs = EXCLUDED.carbs,
				fat = EXCLUDED.fat,
				fiber = EXCLUDED.fiber,
				sugar = EXCLUDED.sugar;`,
		item.ID, item.Name, item.ServingSize, item.ServingUnit,
		item.Per100.Calories, item.Per100.Protein, item.Per100.Carbs, item.Per100.Fat,
		item.Per100.Fiber, item.Per100.Sugar,
	)
	if err != nil {
		return fmt.Errorf("upsert food [%s]: %w", item.ID, err)
	}
	return nil
}

// Insert adds a new food and fails with ErrFoodExists if the id is taken.
func (r *Repo) Insert(ctx context.Context, item FoodItem) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.foods.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", item.ID))

	if item.ID == "" {
		return errors.New("food id empty")
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO food_item
				(id, name, serving_size, serving_unit, calories, protein, carbs, fat, fiber, sugar)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		item.ID, item.Name, item.ServingSize, item.ServingUnit,
		item.Per100.Calories, item.Per100.Protein, item.Per100.Carbs, item.Per100.Fat,
		item.Per100.Fiber, item.Per100.Sugar,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("%w: [%s]", ErrFoodExists, item.ID)
		}
		return fmt.Errorf("insert food [%s]: %w", item.ID, err)
	}
	return nil
}

func rows2foods(rows pgx.Rows) ([]FoodItem, error) {
	items := make([]FoodItem, 0)
	for rows.Next() {
		var item FoodItem
		var per100 aggregate.Nutrition
		if err := rows.Scan(
			&item.ID, &item.Name, &item.ServingSize, &item.ServingUnit,
			&per100.Calories, &per100.Protein, &per100.Carbs, &per100.Fat,
			&per100.Fiber, &per100.Sugar,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		item.Per100 = per100
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
