package nutrition

import (
	"context"

	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/progression"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=nutrition_test

type foodProvider interface {
	Food(ctx context.Context, id string) (foods.FoodItem, error)
}

// foodRefresher is implemented by caching providers that can read past their cache.
type foodRefresher interface {
	Refresh(ctx context.Context, id string) (foods.FoodItem, error)
}

type statePersister interface {
	Enqueue(key string, data []byte)
}

type stateLoader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

type profileSource interface {
	UserProfile() (progression.UserProfile, bool)
}
