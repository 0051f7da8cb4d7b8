// Package spawn decides when flowers appear and where.
package spawn

import (
	"fmt"
	"math"

	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/random"
)

// Lane is one of the two fixed spawn columns.
type Lane int

const (
	LaneLeft Lane = iota
	LaneRight
)

func (l Lane) String() string {
	if l == LaneLeft {
		return "left"
	}
	return "right"
}

// Request asks the engine to create a flower at a world position.
type Request struct {
	Definition flower.Definition
	Lane       Lane
	X, Y       float64
}

// Settings configures the difficulty curve and spawn positions.
type Settings struct {
	InitialInterval float64 // Seconds between the first spawns
	MinInterval     float64 // Floor the interval never drops below
	Decay           float64 // Interval multiplier applied after each spawn, in (0, 1]
	SpawnY          float64 // Height new flowers appear at
	XOffset         float64 // Lane distance from the centre line
}

// Scheduler is a decaying-interval spawn timer.
//
// Each Advance adds dt to an accumulator. Once the accumulator reaches the
// current interval a flower is chosen, the accumulator resets and the
// interval shrinks by Decay, never below MinInterval.
type Scheduler struct {
	catalog  *flower.Catalog
	src      random.Source
	settings Settings

	elapsed  float64
	interval float64
	spawned  int
}

// NewScheduler creates a scheduler in its initial Idle state.
func NewScheduler(catalog *flower.Catalog, src random.Source, settings Settings) *Scheduler {
	s := &Scheduler{
		catalog:  catalog,
		src:      src,
		settings: settings,
	}
	s.Reset()
	return s
}

// Reset restores the base interval and clears the accumulator.
func (s *Scheduler) Reset() {
	s.elapsed = 0
	s.interval = math.Max(s.settings.MinInterval, s.settings.InitialInterval)
	s.spawned = 0
}

// Advance moves the timer forward by dt seconds.
//
// It returns ok=true with a request when the timer fires. When the catalog
// has nothing to offer the error wraps flower.ErrNoCandidates and the timer
// is left untouched so the next tick retries.
func (s *Scheduler) Advance(dt float64) (req Request, ok bool, err error) {
	if dt > 0 {
		s.elapsed += dt
	}
	if s.elapsed < s.interval {
		return Request{}, false, nil
	}

	def, err := flower.Select(s.catalog, s.src)
	if err != nil {
		return Request{}, false, fmt.Errorf("spawn skipped: %w", err)
	}

	lane := LaneRight
	x := s.settings.XOffset
	if s.src.Float64() < 0.5 {
		lane = LaneLeft
		x = -s.settings.XOffset
	}

	s.elapsed = 0
	s.interval = math.Max(s.settings.MinInterval, s.interval*s.settings.Decay)
	s.spawned++

	return Request{
		Definition: def,
		Lane:       lane,
		X:          x,
		Y:          s.settings.SpawnY,
	}, true, nil
}

// Interval returns the current spawn interval in seconds.
func (s *Scheduler) Interval() float64 {
	return s.interval
}

// Elapsed returns the time accumulated since the last spawn.
func (s *Scheduler) Elapsed() float64 {
	return s.elapsed
}

// Spawned returns how many requests have fired since the last Reset.
func (s *Scheduler) Spawned() int {
	return s.spawned
}
