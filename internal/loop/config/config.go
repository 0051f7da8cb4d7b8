// Package config holds the frame-level constants of the terminal front end.
// Game tuning lives in the YAML config; these are presentation and session limits.
package config

import "time"

// View resolution: the visible playfield in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 48 // Logical viewport width
	ViewHeight = 80 // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// Max render resolution in terminal cells. Larger terminals get a border.
const (
	MaxTermWidth  = ViewWidth
	MaxTermHeight = ViewHeight / 2
)

// World window shown in the viewport. Lanes sit near ±2, flowers fall
// from y=7 and are culled below y=-6.
const (
	WorldMinX = -3.5
	WorldMaxX = 3.5
	WorldMinY = -6.5
	WorldMaxY = 7.5
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Leaderboard
const (
	TopScoresCount = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 20
	ServerTickTime = time.Second / ServerTickRate
)
