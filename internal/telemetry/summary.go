package telemetry

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tomz197/buzz/internal/game"
)

// Summary describes one run.
type Summary struct {
	Duration     float64 // Seconds between the first and last event
	Spawns       int
	Culls        int
	Pickups      int
	Deposits     int
	Score        int
	MeanSpawnGap float64 // Mean seconds between spawns; zero with fewer than two spawns
	MinSpawnGap  float64
	StdSpawnGap  float64
	Delivered    int     // Pollen units delivered across all deposits
	MeanLoad     float64 // Mean units per deposit
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%.1fs: %d spawned, %d culled, %d pickups, %d deposits (%.2f units each), score %d; spawn gap mean %.3fs min %.3fs sd %.3fs",
		s.Duration, s.Spawns, s.Culls, s.Pickups, s.Deposits, s.MeanLoad, s.Score,
		s.MeanSpawnGap, s.MinSpawnGap, s.StdSpawnGap,
	)
}

type tally struct {
	first, last float64
	seen        bool
	counts      map[game.EventType]int
	spawnTimes  []float64
	loads       []float64
	score       int
}

func (t *tally) add(ev game.Event) {
	if t.counts == nil {
		t.counts = make(map[game.EventType]int)
	}
	if !t.seen {
		t.first = ev.Time
		t.seen = true
	}
	t.last = ev.Time
	t.counts[ev.Type]++

	switch ev.Type {
	case game.EventSpawned:
		t.spawnTimes = append(t.spawnTimes, ev.Time)
	case game.EventDeposit:
		t.loads = append(t.loads, float64(ev.Carried))
	case game.EventScoreChanged:
		t.score = ev.Score
	}
}

func (t *tally) summary() Summary {
	s := Summary{
		Duration: t.last - t.first,
		Spawns:   t.counts[game.EventSpawned],
		Culls:    t.counts[game.EventCulled],
		Pickups:  t.counts[game.EventPickup],
		Deposits: t.counts[game.EventDeposit],
		Score:    t.score,
	}
	if len(t.loads) > 0 {
		s.Delivered = int(floats.Sum(t.loads))
		s.MeanLoad = stat.Mean(t.loads, nil)
	}
	if len(t.spawnTimes) > 1 {
		gaps := make([]float64, len(t.spawnTimes)-1)
		for i := range gaps {
			gaps[i] = t.spawnTimes[i+1] - t.spawnTimes[i]
		}
		s.MeanSpawnGap, s.StdSpawnGap = stat.MeanStdDev(gaps, nil)
		s.MinSpawnGap = floats.Min(gaps)
	}
	return s
}
