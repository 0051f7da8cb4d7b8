package object

import (
	"fmt"

	"github.com/tomz197/buzz/internal/flower"
)

// ID identifies a live falling object. It is assigned by whoever
// instantiates the object's visual counterpart.
type ID uint64

func (id ID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// FallingObject is a spawned flower drifting down the screen.
type FallingObject struct {
	ID         ID
	Definition flower.Definition
	X, Y       float64 // World position; X is the lane, Y decreases as it falls

	full bool
}

// NewFallingObject creates an object whose full flag starts from the definition.
func NewFallingObject(id ID, def flower.Definition, x, y float64) *FallingObject {
	return &FallingObject{
		ID:         id,
		Definition: def,
		X:          x,
		Y:          y,
		full:       def.IsFullWithPollen,
	}
}

// Full reports whether the flower currently carries pollen.
func (o *FallingObject) Full() bool {
	return o.full
}

// SetFull updates the full flag and reports whether it changed.
// Only the interaction resolver writes this flag.
func (o *FallingObject) SetFull(full bool) bool {
	if o.full == full {
		return false
	}
	o.full = full
	return true
}
