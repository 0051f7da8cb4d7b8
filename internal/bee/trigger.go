package bee

import (
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/physics"
)

// Trigger reports flowers the bee has just started touching.
//
// An overlap fires once when it begins. Staying in contact does not fire
// again; leaving and re-entering does.
type Trigger struct {
	FlowerRadius float64

	touching map[object.ID]struct{}
	seen     map[object.ID]struct{}
}

// NewTrigger creates a trigger for flowers of the given radius.
func NewTrigger(flowerRadius float64) *Trigger {
	return &Trigger{
		FlowerRadius: flowerRadius,
		touching:     make(map[object.ID]struct{}),
		seen:         make(map[object.ID]struct{}),
	}
}

// Enter checks the bee against every flower and returns the IDs whose
// overlap began since the previous call, in flower order.
// Flowers missing from flowers are forgotten.
func (t *Trigger) Enter(b *Bee, flowers []object.FallingObject) []object.ID {
	var entered []object.ID
	clear(t.seen)
	for _, f := range flowers {
		if !physics.CirclesOverlap(b.X, b.Y, b.Radius(), f.X, f.Y, t.FlowerRadius) {
			continue
		}
		t.seen[f.ID] = struct{}{}
		if _, already := t.touching[f.ID]; !already {
			entered = append(entered, f.ID)
		}
	}
	t.touching, t.seen = t.seen, t.touching
	return entered
}
