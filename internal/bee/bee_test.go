package bee

import (
	"math"
	"reflect"
	"testing"

	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/object"
	"github.com/tomz197/buzz/internal/pollen"
)

var testSettings = Settings{
	SideSpeed:       12,
	XLimit:          2.04,
	BaseRiseSpeed:   4,
	WeightPerPollen: 5.5,
	MinY:            -5,
	MaxY:            5,
	Radius:          0.5,
}

const fixedDT = 0.02

func TestStepLaneChange(t *testing.T) {
	b := New(testSettings, 0, 0)
	carrier := pollen.NewCarrier(3)

	b.SteerLeft()
	b.Step(fixedDT, carrier)
	if want := -12 * fixedDT; math.Abs(b.X-want) > 1e-12 {
		t.Errorf("x = %v, want %v", b.X, want)
	}
	if !b.FacingLeft || !b.Moving() {
		t.Errorf("facingLeft=%v moving=%v, want both true", b.FacingLeft, b.Moving())
	}

	for i := 0; i < 50; i++ {
		b.Step(fixedDT, carrier)
	}
	if b.X != -testSettings.XLimit {
		t.Errorf("x = %v, want lane at %v", b.X, -testSettings.XLimit)
	}
	if b.Moving() {
		t.Error("bee still moving after reaching its lane")
	}
}

func TestStepVerticalForce(t *testing.T) {
	tests := []struct {
		name    string
		carried int
		wantDY  float64
	}{
		{"empty rises", 0, 4 * fixedDT},
		{"one unit sinks", 1, (4 - 5.5) * fixedDT},
		{"three units sink fast", 3, (4 - 16.5) * fixedDT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carrier := pollen.NewCarrier(3)
			for i := 0; i < tt.carried; i++ {
				if err := carrier.Pickup("Yellow"); err != nil {
					t.Fatal(err)
				}
			}
			b := New(testSettings, 0, 0)
			b.Step(fixedDT, carrier)
			if math.Abs(b.Y-tt.wantDY) > 1e-12 {
				t.Errorf("y = %v, want %v", b.Y, tt.wantDY)
			}
		})
	}
}

func TestStepClampsHeight(t *testing.T) {
	b := New(testSettings, 0, testSettings.MaxY)
	b.Step(1, pollen.NewCarrier(3))
	if b.Y != testSettings.MaxY {
		t.Errorf("y = %v, want clamp at %v", b.Y, testSettings.MaxY)
	}
}

func TestStepZeroDelta(t *testing.T) {
	b := New(testSettings, 1, 1)
	b.SteerRight()
	b.Step(0, pollen.NewCarrier(3))
	if b.X != 1 || b.Y != 1 {
		t.Errorf("bee moved on zero step: (%v, %v)", b.X, b.Y)
	}
}

func TestFixedStep(t *testing.T) {
	f := FixedStep{Step: 0.02, MaxSteps: 5}
	if n := f.Advance(0.05); n != 2 {
		t.Errorf("first frame steps = %d, want 2", n)
	}
	// 0.01 carried over plus 0.015.
	if n := f.Advance(0.015); n != 1 {
		t.Errorf("second frame steps = %d, want 1", n)
	}
	if n := f.Advance(10); n != 5 {
		t.Errorf("stalled frame steps = %d, want cap 5", n)
	}
	if n := f.Advance(0); n != 0 {
		t.Errorf("zero frame steps = %d", n)
	}
}

func flowerAt(id object.ID, name string, full bool, x, y float64) object.FallingObject {
	return *object.NewFallingObject(id, flower.Definition{IDName: name, IsFullWithPollen: full}, x, y)
}

func TestTriggerEnterOnce(t *testing.T) {
	b := New(testSettings, 2, 0)
	trig := NewTrigger(0.5)

	far := []object.FallingObject{flowerAt(1, "Yellow", true, 2, 3)}
	if got := trig.Enter(b, far); len(got) != 0 {
		t.Fatalf("entered %v while apart", got)
	}

	near := []object.FallingObject{flowerAt(1, "Yellow", true, 2, 0.5)}
	if got := trig.Enter(b, near); !reflect.DeepEqual(got, []object.ID{1}) {
		t.Fatalf("entered %v, want [#1]", got)
	}
	if got := trig.Enter(b, near); len(got) != 0 {
		t.Errorf("staying in contact fired again: %v", got)
	}

	// Culled, then an unrelated flower reuses nothing.
	trig.Enter(b, nil)
	if got := trig.Enter(b, near); !reflect.DeepEqual(got, []object.ID{1}) {
		t.Errorf("re-entry = %v, want [#1]", got)
	}
}

func TestTriggerMultipleInOrder(t *testing.T) {
	b := New(testSettings, 2, 0)
	trig := NewTrigger(0.5)
	flowers := []object.FallingObject{
		flowerAt(4, "Red", false, 2, 0.3),
		flowerAt(2, "Red", false, -2, 0.3),
		flowerAt(9, "Blue", true, 2, -0.3),
	}
	if got := trig.Enter(b, flowers); !reflect.DeepEqual(got, []object.ID{4, 9}) {
		t.Errorf("entered %v, want [#4 #9]", got)
	}
}

func TestAutopilotSteersToUsefulFlower(t *testing.T) {
	tests := []struct {
		name     string
		carry    string
		flowers  []object.FallingObject
		wantLane float64
		wantOK   bool
	}{
		{
			name: "nearest full flower when empty",
			flowers: []object.FallingObject{
				flowerAt(1, "Yellow", true, 2.1, 6),
				flowerAt(2, "Red", true, -2.1, 3),
			},
			wantLane: -testSettings.XLimit,
			wantOK:   true,
		},
		{
			name:  "matching empty flower when carrying",
			carry: "Yellow",
			flowers: []object.FallingObject{
				flowerAt(1, "Red", false, -2.1, 2),
				flowerAt(2, "Yellow", false, 2.1, 4),
			},
			wantLane: testSettings.XLimit,
			wantOK:   true,
		},
		{
			name: "flowers below are ignored",
			flowers: []object.FallingObject{
				flowerAt(1, "Yellow", true, -2.1, -3),
			},
			wantLane: 0,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carrier := pollen.NewCarrier(1)
			if tt.carry != "" {
				if err := carrier.Pickup(tt.carry); err != nil {
					t.Fatal(err)
				}
			}
			b := New(testSettings, 0, 0)
			ok := Autopilot{}.Steer(b, carrier, tt.flowers)
			if ok != tt.wantOK || b.TargetX != tt.wantLane {
				t.Errorf("ok=%v target=%v, want ok=%v target=%v", ok, b.TargetX, tt.wantOK, tt.wantLane)
			}
		})
	}
}
