package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/pollen"
	"github.com/tomz197/buzz/internal/spawn"
)

// Options configures optional engine collaborators.
type Options struct {
	// Instantiator assigns identities to new flowers. Defaults to a counter.
	Instantiator Instantiator
	// Observers receive every event in registration order.
	Observers []Observer
	// Logger receives debug traces and recovered errors. Nil disables logging.
	Logger *log.Logger
	// Strict turns a duplicate identity into an OnTick error instead of a
	// logged discard.
	Strict bool
	// PlayerID is the only player whose collisions are resolved. Zero accepts any.
	PlayerID int
}

// Engine drives one game: spawning, falling, collisions and score.
// It is not safe for concurrent use; each session owns its engine.
type Engine struct {
	scheduler *spawn.Scheduler
	registry  *object.Registry
	carrier   *pollen.Carrier
	score     *ScoreTracker
	resolver  *Resolver

	instantiator Instantiator
	observers    []Observer
	logger       *log.Logger
	strict       bool
	playerID     int

	clock float64
}

// NewEngine wires the core components together.
func NewEngine(scheduler *spawn.Scheduler, registry *object.Registry, carrier *pollen.Carrier, score *ScoreTracker, opts Options) *Engine {
	if score == nil {
		score = &ScoreTracker{}
	}
	e := &Engine{
		scheduler:    scheduler,
		registry:     registry,
		carrier:      carrier,
		score:        score,
		instantiator: opts.Instantiator,
		observers:    opts.Observers,
		logger:       opts.Logger,
		strict:       opts.Strict,
		playerID:     opts.PlayerID,
	}
	if e.instantiator == nil {
		e.instantiator = &sequentialIDs{}
	}
	e.resolver = NewResolver(registry, carrier, score, e.emit)
	return e
}

// AddObserver appends an observer after construction.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// OnTick advances the game by dt seconds: the scheduler first, then the
// registry. A flower spawned this tick falls during the same tick.
//
// The only error returned is a duplicate identity in strict mode. An empty
// catalog skips the spawn and is logged.
func (e *Engine) OnTick(dt float64) error {
	if dt > 0 {
		e.clock += dt
	}

	var tickErr error
	req, fired, err := e.scheduler.Advance(dt)
	switch {
	case errors.Is(err, flower.ErrNoCandidates):
		e.debug("spawn skipped", "err", err)
	case err != nil:
		e.errorf("spawn failed", "err", err)
	case fired:
		tickErr = e.spawn(req)
	}

	for _, obj := range e.registry.Advance(dt) {
		e.debug("flower culled", "id", obj.ID, "flower", obj.Definition)
		e.emit(Event{Type: EventCulled, Object: obj})
	}
	return tickErr
}

func (e *Engine) spawn(req spawn.Request) error {
	id := e.instantiator.Instantiate(req)
	obj := object.NewFallingObject(id, req.Definition, req.X, req.Y)
	if err := e.registry.Register(obj); err != nil {
		if e.strict {
			return fmt.Errorf("spawn %s: %w", req.Definition, err)
		}
		e.errorf("duplicate flower discarded", "err", err)
		return nil
	}
	e.debug("flower spawned", "id", id, "flower", req.Definition, "lane", req.Lane, "interval", e.scheduler.Interval())
	e.emit(Event{
		Type:     EventSpawned,
		Object:   *obj,
		Lane:     req.Lane,
		Interval: e.scheduler.Interval(),
	})
	return nil
}

// OnCollision resolves an overlap between a player and a tracked flower.
// Collisions with flowers that are no longer tracked are ignored.
func (e *Engine) OnCollision(playerID int, id object.ID) Outcome {
	if e.playerID != 0 && playerID != e.playerID {
		return OutcomeIgnored
	}
	outcome := e.resolver.Resolve(id)
	if outcome != OutcomeIgnored && outcome != OutcomeStale {
		e.debug("interaction", "id", id, "outcome", outcome, "carried", e.carrier.Count(), "score", e.score.Score())
	}
	return outcome
}

// Reset clears all live flowers and restarts the difficulty curve. The score
// and carrier are left alone; callers start a new game with fresh ones.
func (e *Engine) Reset() {
	for _, id := range e.registry.Clear() {
		e.emit(Event{Type: EventCulled, Object: object.FallingObject{ID: id}})
	}
	e.scheduler.Reset()
	e.clock = 0
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score.Score() }

// Carrier returns the player's pollen carrier.
func (e *Engine) Carrier() *pollen.Carrier { return e.carrier }

// Registry returns the live flower registry.
func (e *Engine) Registry() *object.Registry { return e.registry }

// Scheduler returns the spawn scheduler.
func (e *Engine) Scheduler() *spawn.Scheduler { return e.scheduler }

// Clock returns the seconds simulated so far.
func (e *Engine) Clock() float64 { return e.clock }

func (e *Engine) emit(ev Event) {
	ev.Time = e.clock
	for _, o := range e.observers {
		o.Notify(ev)
	}
}

func (e *Engine) debug(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}

func (e *Engine) errorf(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Error(msg, keyvals...)
	}
}
