package pkg

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequentialIDGenerator yields prefix-1, prefix-2, ... and is safe for concurrent use.
type SequentialIDGenerator struct {
	prefix  string
	counter atomic.Int64
}

func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

func (g *SequentialIDGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}
