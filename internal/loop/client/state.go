package client

import (
	"time"

	"github.com/tomz197/buzz/internal/draw"
	"github.com/tomz197/buzz/internal/input"
	"github.com/tomz197/buzz/internal/loop/session"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen, shows the last round
	GameStatePlaying                   // Active round
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player state (input, round, scores).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Session   *session.Session // Current round; nil outside GameStatePlaying
	LastScore int              // Final score of the previous round
	Best      int              // Personal best confirmed by the hub
	Rounds    int              // Rounds finished on this connection

	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	reported      int               // Last score sent to the hub
	flash         float64           // Seconds left on the deposit highlight
	prevGameState GameState
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
		reported:  -1,
	}
}
