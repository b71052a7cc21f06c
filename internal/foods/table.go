package foods

import (
	"context"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

var _ Provider = (*Table)(nil)

// Table is an in-memory, read-only food reference table.
type Table struct {
	foods map[string]FoodItem
}

func NewTable(items []FoodItem) (*Table, error) {
	t := &Table{
		foods: make(map[string]FoodItem, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("food [%s] has empty id", item.Name)
		}
		if _, exists := t.foods[item.ID]; exists {
			return nil, fmt.Errorf("duplicate food id [%s]", item.ID)
		}
		t.foods[item.ID] = item
	}
	return t, nil
}

type foodsFile struct {
	Foods []FoodItem `toml:"food"`
}

// LoadTable reads a TOML food seed file.
func LoadTable(path string) (*Table, error) {
	var f foodsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode foods file: %w", err)
	}
	return NewTable(f.Foods)
}

func (t *Table) Food(_ context.Context, id string) (FoodItem, error) {
	item, ok := t.foods[id]
	if !ok {
		return FoodItem{}, fmt.Errorf("%w: [%s]", ErrFoodNotFound, id)
	}
	return item, nil
}

// All returns every food, sorted by id.
func (t *Table) All() []FoodItem {
	items := make([]FoodItem, 0, len(t.foods))
	for _, item := range t.foods {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items
}
