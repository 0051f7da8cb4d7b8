package telemetry

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/spawn"
)

func spawned(at float64, id object.ID) game.Event {
	obj := object.NewFallingObject(id, flower.Definition{IDName: "Yellow", IsFullWithPollen: true}, 2.1, 7)
	return game.Event{Type: game.EventSpawned, Time: at, Object: *obj, Lane: spawn.LaneRight, Interval: 1.5}
}

func TestRecorderWritesCSV(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	r.Notify(spawned(1, 1))
	r.Notify(game.Event{Type: game.EventScoreChanged, Time: 2, Score: 4})

	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "time,event,id,flower") {
		t.Errorf("header = %q", lines[0])
	}

	var rows []EventRow
	if err := gocsv.UnmarshalString(buf.String(), &rows); err != nil {
		t.Fatal(err)
	}
	if rows[0].Event != "spawned" || rows[0].Flower != "Yellow" || rows[0].Role != "pickup" || rows[0].Lane != "right" || !rows[0].Full {
		t.Errorf("spawn row = %+v", rows[0])
	}
	if rows[1].Event != "score" || rows[1].Score != 4 || rows[1].Role != "" {
		t.Errorf("score row = %+v", rows[1])
	}
}

func TestSummary(t *testing.T) {
	r := NewRecorder(nil)
	for i, at := range []float64{0, 2, 3.5, 4.5} {
		r.Notify(spawned(at, object.ID(i+1)))
	}
	r.Notify(game.Event{Type: game.EventPickup, Time: 5})
	r.Notify(game.Event{Type: game.EventDeposit, Time: 6, Carried: 3})
	r.Notify(game.Event{Type: game.EventScoreChanged, Time: 6, Score: 1})
	r.Notify(game.Event{Type: game.EventDeposit, Time: 7, Carried: 1})
	r.Notify(game.Event{Type: game.EventScoreChanged, Time: 7, Score: 2})
	r.Notify(game.Event{Type: game.EventCulled, Time: 8})

	s := r.Summary()
	if s.Spawns != 4 || s.Pickups != 1 || s.Deposits != 2 || s.Culls != 1 || s.Score != 2 {
		t.Errorf("counts = %+v", s)
	}
	if s.Duration != 8 {
		t.Errorf("duration = %v, want 8", s.Duration)
	}
	if math.Abs(s.MeanSpawnGap-1.5) > 1e-12 || s.MinSpawnGap != 1 {
		t.Errorf("spawn gap mean %v min %v, want 1.5 and 1", s.MeanSpawnGap, s.MinSpawnGap)
	}
	if s.Delivered != 4 || s.MeanLoad != 2 {
		t.Errorf("delivered %d mean load %v, want 4 and 2", s.Delivered, s.MeanLoad)
	}
	if !strings.Contains(s.String(), "score 2") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSummaryFewSpawns(t *testing.T) {
	r := NewRecorder(nil)
	r.Notify(spawned(1, 1))
	if s := r.Summary(); s.MeanSpawnGap != 0 || s.MinSpawnGap != 0 {
		t.Errorf("gaps with one spawn: %+v", s)
	}
}

func TestOpen(t *testing.T) {
	r, err := Open("")
	if r != nil || err != nil {
		t.Fatalf("Open(\"\") = %v, %v; want disabled", r, err)
	}
	// Disabled recorders are safe to use.
	r.Notify(spawned(0, 1))
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "run")
	r, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	r.Notify(spawned(0, 1))
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "spawned") {
		t.Errorf("events.csv = %q", data)
	}
}
