// Package game wires spawning, falling objects, pollen and score into a
// tick-driven engine. It has no timing loop of its own: a driver calls
// OnTick once per frame and OnCollision whenever physics reports an overlap.
package game

import (
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/spawn"
)

// EventType identifies an engine notification.
type EventType int

const (
	EventSpawned      EventType = iota // A flower entered play
	EventCulled                        // A flower fell past the destroy line
	EventVisualState                   // A flower's full flag changed
	EventPickup                        // The bee took pollen from a flower
	EventDeposit                       // The bee delivered pollen to a flower
	EventScoreChanged                  // The score total moved
)

func (t EventType) String() string {
	switch t {
	case EventSpawned:
		return "spawned"
	case EventCulled:
		return "culled"
	case EventVisualState:
		return "visual_state"
	case EventPickup:
		return "pickup"
	case EventDeposit:
		return "deposit"
	case EventScoreChanged:
		return "score"
	default:
		return "unknown"
	}
}

// Event is an engine notification. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	Time     float64              // Engine clock in seconds
	Object   object.FallingObject // Copy of the flower involved, if any
	Lane     spawn.Lane           // Spawn lane (EventSpawned)
	Full     bool                 // New full flag (EventVisualState)
	Carried  int                  // Pollen held after a pickup, or units delivered by a deposit
	Score    int                  // Score after the event (EventScoreChanged)
	Interval float64              // Spawn interval after the spawn (EventSpawned)
}

// Observer receives engine notifications synchronously, in emission order.
// Observers read the event; they never write back into engine state.
type Observer interface {
	Notify(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// Notify calls f(ev).
func (f ObserverFunc) Notify(ev Event) { f(ev) }

// Instantiator creates the visual counterpart of a spawn request and returns
// the identity the engine registers the new flower under.
type Instantiator interface {
	Instantiate(req spawn.Request) object.ID
}

// InstantiatorFunc adapts a function to Instantiator.
type InstantiatorFunc func(req spawn.Request) object.ID

// Instantiate calls f(req).
func (f InstantiatorFunc) Instantiate(req spawn.Request) object.ID { return f(req) }

// sequentialIDs hands out 1, 2, 3... for engines without a visual layer.
type sequentialIDs struct {
	next object.ID
}

func (s *sequentialIDs) Instantiate(spawn.Request) object.ID {
	s.next++
	return s.next
}
