// Package flower defines flower types, the spawn catalog and weighted selection.
package flower

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog cannot be built from its definitions.
var ErrInvalidCatalog = errors.New("invalid flower catalog")

// Definition describes one spawnable flower type.
// IDName doubles as the pollen type: pickups and deposits match on it exactly.
type Definition struct {
	IDName           string  `yaml:"id_name" csv:"id_name"`
	Attributes       string  `yaml:"attributes" csv:"attributes"`
	IsFullWithPollen bool    `yaml:"is_full_with_pollen" csv:"is_full_with_pollen"`
	SpawnWeight      float64 `yaml:"spawn_weight" csv:"spawn_weight"`
}

// Role returns "pickup" for flowers that start full and "deposit" otherwise.
func (d Definition) Role() string {
	if d.IsFullWithPollen {
		return "pickup"
	}
	return "deposit"
}

func (d Definition) String() string {
	return fmt.Sprintf("%s/%s", d.IDName, d.Role())
}

// Catalog is an immutable, ordered list of definitions.
type Catalog struct {
	defs  []Definition
	total float64
}

// NewCatalog validates and copies defs. An empty list is allowed; selection
// from it reports ErrNoCandidates.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: make([]Definition, len(defs))}
	for i, d := range defs {
		d.IDName = strings.TrimSpace(d.IDName)
		if d.IDName == "" {
			return nil, fmt.Errorf("%w: definition %d has no id_name", ErrInvalidCatalog, i)
		}
		if d.SpawnWeight < 0 {
			return nil, fmt.Errorf("%w: %s has negative spawn_weight %v", ErrInvalidCatalog, d, d.SpawnWeight)
		}
		c.defs[i] = d
		c.total += d.SpawnWeight
	}
	if len(defs) > 0 && c.total <= 0 {
		return nil, fmt.Errorf("%w: total spawn_weight must be positive", ErrInvalidCatalog)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static tables; it panics on error.
func MustCatalog(defs ...Definition) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// At returns the i-th definition.
func (c *Catalog) At(i int) Definition {
	return c.defs[i]
}

// Definitions returns a copy of the definitions in catalog order.
func (c *Catalog) Definitions() []Definition {
	if c == nil {
		return nil
	}
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// TotalWeight returns the sum of all spawn weights.
func (c *Catalog) TotalWeight() float64 {
	if c == nil {
		return 0
	}
	return c.total
}

// Probability returns the share of spawns the i-th definition should receive.
func (c *Catalog) Probability(i int) float64 {
	if c.total <= 0 {
		return 0
	}
	return c.defs[i].SpawnWeight / c.total
}
