package spawn

import (
	"errors"
	"math"
	"testing"

	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/random"
)

var defaultSettings = Settings{
	InitialInterval: 2.0,
	MinInterval:     0.5,
	Decay:           0.99,
	SpawnY:          7.0,
	XOffset:         2.1,
}

func yellowCatalog() *flower.Catalog {
	return flower.MustCatalog(flower.Definition{IDName: "Yellow", IsFullWithPollen: true, SpawnWeight: 50})
}

func TestAdvanceWaitsForInterval(t *testing.T) {
	s := NewScheduler(yellowCatalog(), random.NewSequence(0.1), defaultSettings)

	if _, ok, err := s.Advance(1.0); ok || err != nil {
		t.Fatalf("fired early: ok=%v err=%v", ok, err)
	}
	if got := s.Elapsed(); got != 1.0 {
		t.Errorf("elapsed = %v, want 1.0", got)
	}

	req, ok, err := s.Advance(1.0)
	if err != nil || !ok {
		t.Fatalf("expected spawn at 2.0s: ok=%v err=%v", ok, err)
	}
	if req.Definition.IDName != "Yellow" || !req.Definition.IsFullWithPollen {
		t.Errorf("unexpected definition %v", req.Definition)
	}
	if req.Y != 7.0 {
		t.Errorf("spawn Y = %v, want 7.0", req.Y)
	}
	if s.Elapsed() != 0 {
		t.Errorf("accumulator not reset: %v", s.Elapsed())
	}
	if want := 2.0 * 0.99; math.Abs(s.Interval()-want) > 1e-12 {
		t.Errorf("interval = %v, want %v", s.Interval(), want)
	}
}

func TestAdvanceLaneChoice(t *testing.T) {
	tests := []struct {
		name     string
		laneDraw float64
		wantLane Lane
		wantX    float64
	}{
		{"low draw is left", 0.2, LaneLeft, -2.1},
		{"high draw is right", 0.7, LaneRight, 2.1},
		{"half is right", 0.5, LaneRight, 2.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// First draw selects the flower, second picks the lane.
			s := NewScheduler(yellowCatalog(), random.NewSequence(0.3, tt.laneDraw), defaultSettings)
			req, ok, err := s.Advance(5)
			if !ok || err != nil {
				t.Fatalf("ok=%v err=%v", ok, err)
			}
			if req.Lane != tt.wantLane || req.X != tt.wantX {
				t.Errorf("lane %v at x=%v, want %v at x=%v", req.Lane, req.X, tt.wantLane, tt.wantX)
			}
		})
	}
}

func TestIntervalMonotonicWithFloor(t *testing.T) {
	for _, decay := range []float64{1.0, 0.99, 0.9, 0.5, 0.01} {
		settings := defaultSettings
		settings.Decay = decay
		s := NewScheduler(yellowCatalog(), random.New(9), settings)

		prev := s.Interval()
		for i := 0; i < 2000; i++ {
			if _, ok, err := s.Advance(prev); !ok || err != nil {
				t.Fatalf("decay %v spawn %d: ok=%v err=%v", decay, i, ok, err)
			}
			cur := s.Interval()
			if cur > prev {
				t.Fatalf("decay %v: interval grew %v -> %v", decay, prev, cur)
			}
			if cur < settings.MinInterval {
				t.Fatalf("decay %v: interval %v below floor %v", decay, cur, settings.MinInterval)
			}
			prev = cur
		}
		if decay < 1 && prev != settings.MinInterval {
			t.Errorf("decay %v: interval settled at %v, want floor %v", decay, prev, settings.MinInterval)
		}
		if decay == 1 && prev != settings.InitialInterval {
			t.Errorf("decay 1: interval drifted to %v", prev)
		}
	}
}

func TestAdvanceEmptyCatalog(t *testing.T) {
	s := NewScheduler(flower.MustCatalog(), random.NewSequence(0.5), defaultSettings)

	_, ok, err := s.Advance(3)
	if ok {
		t.Fatal("spawned from empty catalog")
	}
	if !errors.Is(err, flower.ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
	if s.Interval() != defaultSettings.InitialInterval {
		t.Errorf("interval changed on skipped spawn: %v", s.Interval())
	}
	if s.Spawned() != 0 {
		t.Errorf("spawned = %d, want 0", s.Spawned())
	}
}

func TestAdvanceZeroAndNegative(t *testing.T) {
	s := NewScheduler(yellowCatalog(), random.NewSequence(0.5), defaultSettings)
	s.Advance(0)
	s.Advance(-3)
	if s.Elapsed() != 0 {
		t.Errorf("elapsed = %v after zero/negative ticks", s.Elapsed())
	}
}

func TestResetRestoresBaseInterval(t *testing.T) {
	s := NewScheduler(yellowCatalog(), random.New(1), defaultSettings)
	for i := 0; i < 10; i++ {
		s.Advance(10)
	}
	s.Reset()
	if s.Interval() != defaultSettings.InitialInterval || s.Spawned() != 0 || s.Elapsed() != 0 {
		t.Errorf("reset left interval=%v spawned=%d elapsed=%v", s.Interval(), s.Spawned(), s.Elapsed())
	}
}
