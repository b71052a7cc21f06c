package progression

import (
	"context"

	"github.com/2beens/fitledger/internal/catalog"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progression_test

type programCatalog interface {
	Programs() []catalog.Program
	Program(id string) (catalog.Program, bool)
}

type statePersister interface {
	Enqueue(key string, data []byte)
}

type stateLoader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}
