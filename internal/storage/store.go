// Package storage provides the key-value persistence capability used to
// mirror the progression and nutrition state.
package storage

import (
	"context"
	"errors"
)

const (
	KeyProgression = "fitledger:progression"
	KeyNutrition   = "fitledger:nutrition"
)

var ErrNotFound = errors.New("key not found")

// Store loads and saves opaque state blobs by key.
// Load returns ErrNotFound for an absent key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
