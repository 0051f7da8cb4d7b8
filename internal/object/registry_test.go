package object

import (
	"errors"
	"testing"

	"github.com/tomz197/buzz/internal/flower"
)

var (
	yellowFull  = flower.Definition{IDName: "Yellow", IsFullWithPollen: true, SpawnWeight: 50}
	yellowEmpty = flower.Definition{IDName: "Yellow", SpawnWeight: 50}
)

func TestNewFallingObjectStartsFromDefinition(t *testing.T) {
	full := NewFallingObject(1, yellowFull, 2.1, 7)
	empty := NewFallingObject(2, yellowEmpty, -2.1, 7)
	if !full.Full() || empty.Full() {
		t.Fatalf("full=%v empty=%v", full.Full(), empty.Full())
	}

	if !full.SetFull(false) {
		t.Error("SetFull(false) on full object reported no change")
	}
	if full.SetFull(false) {
		t.Error("repeated SetFull(false) reported a change")
	}
	if full.Definition.IsFullWithPollen != true {
		t.Error("toggling the object changed its definition")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(4, -6)
	if err := r.Register(NewFallingObject(1, yellowFull, 0, 7)); err != nil {
		t.Fatal(err)
	}
	err := r.Register(NewFallingObject(1, yellowEmpty, 0, 7))
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	obj, _ := r.Lookup(1)
	if !obj.Full() {
		t.Error("duplicate replaced the original object")
	}
}

func TestAdvanceMovesAndCulls(t *testing.T) {
	tests := []struct {
		name       string
		startY     float64
		dt         float64
		wantCulled bool
		wantY      float64
	}{
		{"stays above threshold", 0, 0.5, false, -2},
		{"lands exactly on threshold", -2, 1, false, -6},
		{"crosses threshold", -5.9, 0.1, true, -6.3},
		{"just below threshold", -6 - 0.01, 0.001, true, -6.014},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(4, -6)
			if err := r.Register(NewFallingObject(7, yellowFull, 2.1, tt.startY)); err != nil {
				t.Fatal(err)
			}
			culled := r.Advance(tt.dt)

			if tt.wantCulled {
				if len(culled) != 1 || culled[0].ID != 7 {
					t.Fatalf("culled = %v, want object 7", culled)
				}
				if _, ok := r.Lookup(7); ok {
					t.Error("culled object still tracked")
				}
				return
			}
			if len(culled) != 0 {
				t.Fatalf("culled %v while y >= destroyY", culled)
			}
			obj, ok := r.Lookup(7)
			if !ok {
				t.Fatal("object lost")
			}
			if diff := obj.Y - tt.wantY; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("y = %v, want %v", obj.Y, tt.wantY)
			}
		})
	}
}

func TestAdvanceZeroIsNoop(t *testing.T) {
	r := NewRegistry(4, -6)
	r.Register(NewFallingObject(1, yellowFull, 0, 3))
	r.Register(NewFallingObject(2, yellowFull, 0, -7)) // already below the line

	for _, dt := range []float64{0, -1} {
		if culled := r.Advance(dt); len(culled) != 0 {
			t.Fatalf("Advance(%v) culled %v", dt, culled)
		}
	}
	if obj, _ := r.Lookup(1); obj.Y != 3 {
		t.Errorf("y moved to %v", obj.Y)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
}

func TestAdvanceCullsManyWithoutSkipping(t *testing.T) {
	r := NewRegistry(1, 0)
	// Alternate doomed and surviving objects so compaction has to shift entries.
	for i := 1; i <= 10; i++ {
		y := 5.0
		if i%2 == 1 {
			y = 0.5
		}
		r.Register(NewFallingObject(ID(i), yellowFull, 0, y))
	}

	culled := r.Advance(1)
	if len(culled) != 5 {
		t.Fatalf("culled %d objects, want 5", len(culled))
	}
	for i, obj := range culled {
		if want := ID(2*i + 1); obj.ID != want {
			t.Errorf("culled[%d] = %s, want %s", i, obj.ID, want)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 5 {
		t.Fatalf("remaining %d, want 5", len(snap))
	}
	for i, obj := range snap {
		if want := ID(2*i + 2); obj.ID != want {
			t.Errorf("snapshot[%d] = %s, want %s", i, obj.ID, want)
		}
		if obj.Y != 4 {
			t.Errorf("%s moved to %v, want 4 (moved exactly once)", obj.ID, obj.Y)
		}
	}
}

func TestRemoveAndLookup(t *testing.T) {
	r := NewRegistry(4, -6)
	for i := 1; i <= 3; i++ {
		r.Register(NewFallingObject(ID(i), yellowFull, 0, 0))
	}

	if !r.Remove(2) {
		t.Fatal("Remove(2) = false")
	}
	if r.Remove(2) {
		t.Error("second Remove(2) = true")
	}
	if _, ok := r.Lookup(2); ok {
		t.Error("removed object still found")
	}
	if _, ok := r.Lookup(99); ok {
		t.Error("unknown id found")
	}

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].ID != 1 || snap[1].ID != 3 {
		t.Errorf("snapshot after remove = %v", snap)
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry(4, -6)
	r.Register(NewFallingObject(4, yellowFull, 0, 0))
	r.Register(NewFallingObject(5, yellowFull, 0, 0))

	ids := r.Clear()
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 5 {
		t.Errorf("Clear returned %v", ids)
	}
	if r.Len() != 0 {
		t.Errorf("len = %d after Clear", r.Len())
	}
	if err := r.Register(NewFallingObject(4, yellowFull, 0, 0)); err != nil {
		t.Errorf("re-register after Clear: %v", err)
	}
}
