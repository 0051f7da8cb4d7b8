// Package pollen tracks the pollen a bee is carrying.
package pollen

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned by Pickup when the bee is already full.
	ErrCapacityExceeded = errors.New("pollen capacity exceeded")
	// ErrTypeMismatch is returned when the pollen type differs from what is held.
	ErrTypeMismatch = errors.New("pollen type mismatch")
)

// Carrier holds up to Max units of a single pollen type.
type Carrier struct {
	count       int
	currentType string
	max         int
}

// NewCarrier creates an empty carrier. A capacity below one is raised to one.
func NewCarrier(maxPollen int) *Carrier {
	if maxPollen < 1 {
		maxPollen = 1
	}
	return &Carrier{max: maxPollen}
}

// Count returns the number of pollen units held.
func (c *Carrier) Count() int { return c.count }

// Type returns the type of the held pollen, or "" when empty.
func (c *Carrier) Type() string { return c.currentType }

// Max returns the carrying capacity.
func (c *Carrier) Max() int { return c.max }

// CanPickup reports whether one more unit of typ fits.
func (c *Carrier) CanPickup(typ string) bool {
	return (c.count == 0 || typ == c.currentType) && c.count < c.max
}

// Pickup adds one unit of typ. The carrier is left unchanged on error.
func (c *Carrier) Pickup(typ string) error {
	if c.count >= c.max {
		return fmt.Errorf("pickup %q with %d/%d held: %w", typ, c.count, c.max, ErrCapacityExceeded)
	}
	if c.count > 0 && typ != c.currentType {
		return fmt.Errorf("pickup %q while holding %q: %w", typ, c.currentType, ErrTypeMismatch)
	}
	if c.count == 0 {
		c.currentType = typ
	}
	c.count++
	return nil
}

// CanDeposit reports whether the held pollen can be delivered to a typ flower.
func (c *Carrier) CanDeposit(typ string) bool {
	return c.count > 0 && c.currentType == typ
}

// DepositAll empties the carrier and returns how many units were delivered.
func (c *Carrier) DepositAll() int {
	n := c.count
	c.count = 0
	c.currentType = ""
	return n
}

// NetForce is the vertical speed of a bee carrying this load: the lift
// minus the weight of every carried unit. Negative values sink.
func (c *Carrier) NetForce(baseRise, weightPerPollen float64) float64 {
	return baseRise - float64(c.count)*weightPerPollen
}
