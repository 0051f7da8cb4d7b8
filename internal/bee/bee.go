// Package bee holds the player's motion, trigger detection and an autopilot.
package bee

import (
	"math"

	"github.com/tomz197/buzz/internal/physics"
	"github.com/tomz197/buzz/internal/pollen"
)

// Settings tunes the bee's flight.
type Settings struct {
	SideSpeed       float64 // Horizontal speed toward the target lane
	XLimit          float64 // Lane targets sit at -XLimit and +XLimit
	BaseRiseSpeed   float64 // Upward speed with no pollen
	WeightPerPollen float64 // Upward speed lost per carried unit
	MinY, MaxY      float64 // Vertical bounds
	Radius          float64 // Trigger radius
}

// movingThreshold is how far from its target the bee must be to count as moving.
const movingThreshold = 0.1

// Bee is the player-controlled flyer. Carried pollen weighs it down.
type Bee struct {
	X, Y       float64
	TargetX    float64
	FacingLeft bool

	settings Settings
}

// New creates a bee hovering at (x, y) with no pending lane change.
func New(settings Settings, x, y float64) *Bee {
	return &Bee{
		X:        x,
		Y:        y,
		TargetX:  x,
		settings: settings,
	}
}

// SteerLeft sets the left lane as the target.
func (b *Bee) SteerLeft() { b.TargetX = -b.settings.XLimit }

// SteerRight sets the right lane as the target.
func (b *Bee) SteerRight() { b.TargetX = b.settings.XLimit }

// Step integrates one fixed step of dt seconds.
// Horizontal motion heads for TargetX; vertical motion follows the carrier's
// net force and is clamped to the configured band.
func (b *Bee) Step(dt float64, carrier *pollen.Carrier) {
	if dt <= 0 {
		return
	}
	net := carrier.NetForce(b.settings.BaseRiseSpeed, b.settings.WeightPerPollen)

	b.X = physics.MoveTowards(b.X, b.TargetX, b.settings.SideSpeed*dt)
	b.Y = physics.Clamp(b.Y+net*dt, b.settings.MinY, b.settings.MaxY)

	if diff := b.TargetX - b.X; math.Abs(diff) > movingThreshold {
		b.FacingLeft = diff < 0
	}
}

// Moving reports whether the bee is still travelling between lanes.
func (b *Bee) Moving() bool {
	return math.Abs(b.TargetX-b.X) > movingThreshold
}

// Radius returns the trigger radius.
func (b *Bee) Radius() float64 {
	return b.settings.Radius
}

// Settings returns the flight settings.
func (b *Bee) Settings() Settings {
	return b.settings
}

// FixedStep converts variable frame times into a whole number of fixed steps.
type FixedStep struct {
	Step     float64 // Seconds per step
	MaxSteps int     // Upper bound per frame so a stall cannot spiral; 0 means unbounded

	acc float64
}

// Advance adds dt and returns how many steps are now due.
func (f *FixedStep) Advance(dt float64) int {
	if dt <= 0 || f.Step <= 0 {
		return 0
	}
	f.acc += dt
	n := int(f.acc / f.Step)
	f.acc -= float64(n) * f.Step
	if f.MaxSteps > 0 && n > f.MaxSteps {
		n = f.MaxSteps
		f.acc = 0
	}
	return n
}
