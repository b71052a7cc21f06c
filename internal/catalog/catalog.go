// Package catalog holds the immutable program reference data.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidCatalog = errors.New("invalid program catalog")

// Catalog is an ordered, read-only list of programs.
// Every accessor returns deep copies.
type Catalog struct {
	programs []Program
	byID     map[string]int
}

func New(programs []Program) (*Catalog, error) {
	c := &Catalog{
		programs: make([]Program, 0, len(programs)),
		byID:     make(map[string]int, len(programs)),
	}

	for _, p := range programs {
		if err := validateProgram(p); err != nil {
			return nil, fmt.Errorf("%w: program [%s]: %w", ErrInvalidCatalog, p.ID, err)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate program id [%s]", ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = len(c.programs)
		c.programs = append(c.programs, p.Clone())
	}

	return c, nil
}

func validateProgram(p Program) error {
	if p.ID == "" {
		return errors.New("empty id")
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("unknown type [%s]", p.Type)
	}
	if len(p.Weeks) == 0 {
		return errors.New("no weeks")
	}

	workoutIDs := make(map[string]bool)
	for i, w := range p.Weeks {
		if w.Number != i+1 {
			return fmt.Errorf("week numbers must be contiguous from 1, got %d at position %d", w.Number, i+1)
		}
		for _, wo := range w.Workouts {
			if wo.ID == "" {
				return fmt.Errorf("week %d: workout with empty id", w.Number)
			}
			if workoutIDs[wo.ID] {
				return fmt.Errorf("duplicate workout id [%s]", wo.ID)
			}
			workoutIDs[wo.ID] = true
		}
	}
	return nil
}

// Programs returns all programs in catalog order.
func (c *Catalog) Programs() []Program {
	programs := make([]Program, len(c.programs))
	for i, p := range c.programs {
		programs[i] = p.Clone()
	}
	return programs
}

func (c *Catalog) Program(id string) (Program, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Program{}, false
	}
	return c.programs[idx].Clone(), true
}

func (c *Catalog) Len() int {
	return len(c.programs)
}

type programsFile struct {
	Programs []Program `toml:"program"`
}

// LoadFile reads a TOML program seed file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read programs file: %w", err)
	}
	return Parse(string(data))
}

func Parse(data string) (*Catalog, error) {
	var f programsFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("decode programs toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warnf("programs catalog: ignoring unknown keys %v", undecoded)
	}
	return New(f.Programs)
}
