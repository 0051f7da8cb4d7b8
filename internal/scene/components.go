package scene

import "github.com/tomz197/buzz/internal/flower"

// Position is a world position.
type Position struct {
	X, Y float64
}

// Bloom marks a flower entity.
type Bloom struct {
	Definition flower.Definition
	Full       bool
}

// Sparkle is a short-lived particle emitted by pickups and deposits.
type Sparkle struct {
	VX, VY      float64 // Velocity
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime, for fading
	Symbol      rune
}

// Faded reports whether the sparkle is in the last quarter of its life.
func (s Sparkle) Faded() bool {
	return s.MaxLifetime > 0 && s.Lifetime/s.MaxLifetime < 0.25
}
