package pollen

import (
	"errors"
	"testing"
)

func TestCanPickup(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		held    []string
		typ     string
		wantCan bool
	}{
		{"empty accepts anything", 3, nil, "Yellow", true},
		{"same type with room", 3, []string{"Yellow"}, "Yellow", true},
		{"other type refused", 3, []string{"Yellow"}, "Red", false},
		{"full of same type", 2, []string{"Yellow", "Yellow"}, "Yellow", false},
		{"full refuses other type", 1, []string{"Yellow"}, "Red", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCarrier(tt.max)
			for _, h := range tt.held {
				if err := c.Pickup(h); err != nil {
					t.Fatalf("setup pickup %q: %v", h, err)
				}
			}
			if got := c.CanPickup(tt.typ); got != tt.wantCan {
				t.Errorf("CanPickup(%q) = %v, want %v", tt.typ, got, tt.wantCan)
			}
		})
	}
}

func TestCanPickupFalseAtCapacityForAnyType(t *testing.T) {
	for capacity := 1; capacity <= 5; capacity++ {
		c := NewCarrier(capacity)
		for i := 0; i < capacity; i++ {
			c.Pickup("Yellow")
		}
		for _, typ := range []string{"Yellow", "Red", ""} {
			if c.CanPickup(typ) {
				t.Errorf("capacity %d: CanPickup(%q) true when full", capacity, typ)
			}
		}
	}
}

func TestPickupErrorsLeaveStateUnchanged(t *testing.T) {
	c := NewCarrier(1)
	if err := c.Pickup("Yellow"); err != nil {
		t.Fatal(err)
	}

	if err := c.Pickup("Yellow"); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}

	c = NewCarrier(3)
	c.Pickup("Yellow")
	if err := c.Pickup("Red"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
	if c.Count() != 1 || c.Type() != "Yellow" {
		t.Errorf("state changed to %d %q", c.Count(), c.Type())
	}
}

func TestDeposit(t *testing.T) {
	c := NewCarrier(3)
	if c.CanDeposit("Yellow") {
		t.Error("empty carrier can deposit")
	}

	c.Pickup("Yellow")
	c.Pickup("Yellow")
	if c.CanDeposit("Red") {
		t.Error("deposit allowed on mismatching type")
	}
	if !c.CanDeposit("Yellow") {
		t.Fatal("deposit refused on matching type")
	}

	if n := c.DepositAll(); n != 2 {
		t.Errorf("DepositAll = %d, want 2", n)
	}
	if c.Count() != 0 || c.Type() != "" {
		t.Errorf("after deposit: %d %q", c.Count(), c.Type())
	}
	if !c.CanPickup("Red") {
		t.Error("empty carrier refuses a new type")
	}
}

func TestNetForce(t *testing.T) {
	c := NewCarrier(3)
	tests := []struct {
		count int
		want  float64
	}{
		{0, 4.0},
		{1, -1.5},
		{2, -7.0},
		{3, -12.5},
	}
	for _, tt := range tests {
		for c.Count() < tt.count {
			c.Pickup("Yellow")
		}
		if got := c.NetForce(4.0, 5.5); got != tt.want {
			t.Errorf("count %d: NetForce = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestNewCarrierMinimumCapacity(t *testing.T) {
	if got := NewCarrier(0).Max(); got != 1 {
		t.Errorf("Max = %d, want 1", got)
	}
}
