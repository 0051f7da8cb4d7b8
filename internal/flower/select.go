package flower

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/tomz197/buzz/internal/random"
)

// ErrNoCandidates is returned when there is nothing to select from.
// Callers skip the spawn for the current tick.
var ErrNoCandidates = errors.New("no flower candidates")

// Select draws one definition with probability proportional to its weight.
//
// A value r is drawn uniformly in [0, total) and the first definition whose
// cumulative weight reaches r wins. Zero-weight definitions are never chosen.
// If rounding leaves no winner the last positive-weight definition is returned.
func Select(c *Catalog, src random.Source) (Definition, error) {
	if c.Len() == 0 || c.total <= 0 {
		return Definition{}, ErrNoCandidates
	}

	weights := make([]float64, len(c.defs))
	for i, d := range c.defs {
		weights[i] = d.SpawnWeight
	}
	cumulative := floats.CumSum(make([]float64, len(weights)), weights)

	r := src.Float64() * floats.Sum(weights)
	last := -1
	for i, sum := range cumulative {
		if weights[i] == 0 {
			continue
		}
		if sum >= r {
			return c.defs[i], nil
		}
		last = i
	}
	return c.defs[last], nil
}
