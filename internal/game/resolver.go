package game

import (
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/pollen"
)

// Outcome is the result of resolving one collision.
type Outcome int

const (
	OutcomeStale    Outcome = iota // Flower no longer tracked
	OutcomeIgnored                 // Tracked, but nothing could be exchanged
	OutcomePickup                  // Pollen moved from flower to bee
	OutcomeDeposit                 // Pollen moved from bee to flower and scored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeIgnored:
		return "ignored"
	case OutcomePickup:
		return "pickup"
	case OutcomeDeposit:
		return "deposit"
	default:
		return "unknown"
	}
}

// depositPoints is awarded per successful deposit, however much was carried.
const depositPoints = 1

// Resolver applies the pickup/deposit matching rule.
//
// A full flower gives one unit of its pollen if the bee can take it; an
// empty flower accepts the bee's load if the types match. Either way the
// flower flips its full flag and stays in play.
type Resolver struct {
	registry *object.Registry
	carrier  *pollen.Carrier
	score    *ScoreTracker
	emit     func(Event)
}

// NewResolver creates a resolver. emit receives every resulting event and may be nil.
func NewResolver(registry *object.Registry, carrier *pollen.Carrier, score *ScoreTracker, emit func(Event)) *Resolver {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Resolver{
		registry: registry,
		carrier:  carrier,
		score:    score,
		emit:     emit,
	}
}

// Resolve handles a collision between the bee and flower id.
func (r *Resolver) Resolve(id object.ID) Outcome {
	obj, ok := r.registry.Lookup(id)
	if !ok {
		return OutcomeStale
	}
	typ := obj.Definition.IDName

	if obj.Full() {
		if !r.carrier.CanPickup(typ) {
			return OutcomeIgnored
		}
		if err := r.carrier.Pickup(typ); err != nil {
			return OutcomeIgnored
		}
		obj.SetFull(false)
		r.emit(Event{Type: EventVisualState, Object: *obj, Full: false})
		r.emit(Event{Type: EventPickup, Object: *obj, Carried: r.carrier.Count()})
		return OutcomePickup
	}

	if !r.carrier.CanDeposit(typ) {
		return OutcomeIgnored
	}
	delivered := r.carrier.DepositAll()
	obj.SetFull(true)
	r.emit(Event{Type: EventVisualState, Object: *obj, Full: true})
	r.emit(Event{Type: EventDeposit, Object: *obj, Carried: delivered})

	total, err := r.score.Add(depositPoints)
	if err == nil {
		r.emit(Event{Type: EventScoreChanged, Object: *obj, Score: total})
	}
	return OutcomeDeposit
}
