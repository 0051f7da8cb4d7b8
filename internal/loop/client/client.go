// Package client runs one player's terminal front end: input, the local
// game session, rendering, and score reporting to the shared hub.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/buzz/internal/draw"
	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/input"
	"github.com/tomz197/buzz/internal/loop/config"
	"github.com/tomz197/buzz/internal/loop/server"
	"github.com/tomz197/buzz/internal/loop/session"
)

// depositFlashSeconds is how long the HUD highlights a delivery.
const depositFlashSeconds = 0.4

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	sessionOpts  session.Options
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Session      session.Options // Used to build each round; Config is required
	Logger       *log.Logger     // Nil disables logging
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	sessionOpts := opts.Session
	if sessionOpts.Logger == nil {
		sessionOpts.Logger = opts.Logger
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		sessionOpts:  sessionOpts,
		logger:       opts.Logger,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
// The hub forgets the client on every return path, including write errors.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	defer c.leave()
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			if err := c.updateStartState(); err != nil {
				return err
			}
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// leave reports a running round as finished and unregisters from the hub.
func (c *Client) leave() {
	if c.state.Session != nil {
		c.endRound()
	}
	c.server.UnregisterClient(c.handle.ID)
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventPersonalBest:
				c.state.Best = event.Score
			case server.EventServerShutdown:
				if c.state.Session != nil {
					c.endRound()
				}
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() error {
	if c.state.Input.Start() {
		return c.startGame()
	}
	return nil
}

// startGame builds a fresh session for a new round.
func (c *Client) startGame() error {
	input.ResetKeyInput(c.inputStream)

	s, err := session.New(c.sessionOpts)
	if err != nil {
		return fmt.Errorf("starting round: %w", err)
	}
	c.state.Session = s
	c.state.reported = -1
	c.state.flash = 0
	c.state.GameState = GameStatePlaying
	c.reportScore(true)
	return nil
}

// updatePlayingState advances the round by one frame.
func (c *Client) updatePlayingState() {
	if c.state.Input.Escape {
		c.endRound()
		return
	}

	steer := session.SteerNone
	switch {
	case c.state.Input.Left && !c.state.Input.Right:
		steer = session.SteerLeft
	case c.state.Input.Right && !c.state.Input.Left:
		steer = session.SteerRight
	}

	// Hold the round while the inactivity warning is up.
	dt := c.state.delta.Seconds()
	if c.state.isInactive {
		dt = 0
	}

	outcomes, err := c.state.Session.Update(dt, steer)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("round aborted", "user", c.username, "err", err)
		}
		c.endRound()
		return
	}
	for _, o := range outcomes {
		if o == game.OutcomeDeposit {
			c.state.flash = depositFlashSeconds
		}
	}
	c.state.flash = max(0, c.state.flash-dt)

	c.reportScore(true)
}

// reportScore sends the round's score to the hub when it changed.
func (c *Client) reportScore(playing bool) {
	score := c.state.Session.Score()
	if playing && score == c.state.reported {
		return
	}
	c.server.ReportScore(c.handle.ID, score, playing)
	c.state.reported = score
}

// endRound reports the final score and returns to the title screen.
func (c *Client) endRound() {
	c.reportScore(false)
	c.state.LastScore = c.state.Session.Score()
	c.state.Rounds++
	c.state.Session = nil
	c.state.GameState = GameStateStart
	input.ResetKeyInput(c.inputStream)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
