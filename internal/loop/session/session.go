// Package session assembles one playable game and drives it frame by frame.
//
// Each frame runs in a fixed order: steering, fixed-step bee motion, the
// engine tick, scene sync, trigger collisions, then sparkle animation.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/buzz/internal/bee"
	"github.com/tomz197/buzz/internal/config"
	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/pollen"
	"github.com/tomz197/buzz/internal/random"
	"github.com/tomz197/buzz/internal/scene"
	"github.com/tomz197/buzz/internal/spawn"
)

// PlayerID identifies the bee in collision reports.
const PlayerID = 1

// maxStepsPerFrame bounds catch-up after a stall.
const maxStepsPerFrame = 25

// Steer is the lane request for a frame.
type Steer int

const (
	SteerNone Steer = iota
	SteerLeft
	SteerRight
)

// Options configures a session.
type Options struct {
	Config    *config.Config
	Catalog   *flower.Catalog // Built from Config when nil
	Seed      int64           // Overrides Config.Debug.Seed when non-zero
	Logger    *log.Logger
	Observers []game.Observer // Extra engine observers, after the scene
}

// Session is one bee's game.
type Session struct {
	Engine  *game.Engine
	Bee     *bee.Bee
	Carrier *pollen.Carrier
	Scene   *scene.Scene

	trigger *bee.Trigger
	step    bee.FixedStep
}

// New builds a session from config.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = cfg.Catalog(); err != nil {
			return nil, fmt.Errorf("building catalog: %w", err)
		}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Debug.Seed
	}
	rng := random.New(seed)

	sc := scene.New(rng, scene.DefaultSparkles)
	carrier := pollen.NewCarrier(cfg.Bee.MaxPollen)
	engine := game.NewEngine(
		spawn.NewScheduler(catalog, rng, cfg.SpawnSettings()),
		object.NewRegistry(cfg.Fall.Speed, cfg.Fall.DestroyY),
		carrier,
		&game.ScoreTracker{},
		game.Options{
			Instantiator: sc,
			Observers:    append([]game.Observer{sc}, opts.Observers...),
			Logger:       opts.Logger,
			Strict:       cfg.Debug.Strict,
			PlayerID:     PlayerID,
		},
	)

	return &Session{
		Engine:  engine,
		Bee:     bee.New(cfg.BeeSettings(), 0, cfg.Bee.StartY),
		Carrier: carrier,
		Scene:   sc,
		trigger: bee.NewTrigger(cfg.Fall.FlowerRadius),
		step:    bee.FixedStep{Step: cfg.Bee.FixedStep, MaxSteps: maxStepsPerFrame},
	}, nil
}

// Update advances the game by dt seconds of wall time and returns the
// outcomes of collisions resolved this frame.
func (s *Session) Update(dt float64, steer Steer) ([]game.Outcome, error) {
	switch steer {
	case SteerLeft:
		s.Bee.SteerLeft()
	case SteerRight:
		s.Bee.SteerRight()
	}

	for n := s.step.Advance(dt); n > 0; n-- {
		s.Bee.Step(s.step.Step, s.Carrier)
	}

	if err := s.Engine.OnTick(dt); err != nil {
		return nil, err
	}

	flowers := s.Engine.Registry().Snapshot()
	s.Scene.Sync(flowers)

	var outcomes []game.Outcome
	for _, id := range s.trigger.Enter(s.Bee, flowers) {
		outcomes = append(outcomes, s.Engine.OnCollision(PlayerID, id))
	}

	s.Scene.Update(dt)
	return outcomes, nil
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.Engine.Score()
}

// Flowers returns a copy of the live flowers.
func (s *Session) Flowers() []object.FallingObject {
	return s.Engine.Registry().Snapshot()
}
