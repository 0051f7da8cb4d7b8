package bee

import (
	"math"

	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/pollen"
)

// Autopilot steers the bee toward the nearest flower it can use.
type Autopilot struct {
	// Lookahead ignores flowers further above the bee than this.
	Lookahead float64
}

// Steer picks a lane for the bee. Full flowers are useful when the carrier
// can take their pollen; empty flowers when it can deposit into them.
// Flowers already below the bee are skipped. It reports whether a target
// was found; without one the bee keeps its current lane.
func (a Autopilot) Steer(b *Bee, carrier *pollen.Carrier, flowers []object.FallingObject) bool {
	best := math.Inf(1)
	var target *object.FallingObject
	for i := range flowers {
		f := &flowers[i]
		typ := f.Definition.IDName
		useful := (f.Full() && carrier.CanPickup(typ)) || (!f.Full() && carrier.CanDeposit(typ))
		if !useful {
			continue
		}
		gap := f.Y - b.Y
		if gap < -b.Radius() || (a.Lookahead > 0 && gap > a.Lookahead) {
			continue
		}
		if gap < best {
			best = gap
			target = f
		}
	}
	if target == nil {
		return false
	}
	if target.X < 0 {
		b.SteerLeft()
	} else {
		b.SteerRight()
	}
	return true
}
