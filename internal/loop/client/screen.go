package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/buzz/internal/draw"
	"github.com/tomz197/buzz/internal/loop/config"
	"github.com/tomz197/buzz/internal/loop/server"
	"github.com/tomz197/buzz/internal/scene"
)

// Logical units per world unit.
const (
	viewScaleX = config.ViewWidth / (config.WorldMaxX - config.WorldMinX)
	viewScaleY = config.ViewHeight / (config.WorldMaxY - config.WorldMinY)
)

const ellipseSegments = 16

// toView maps a world position (y up) to logical canvas coordinates (y down).
func toView(x, y float64) (vx, vy float64) {
	return (x - config.WorldMinX) * viewScaleX, (config.WorldMaxY - y) * viewScaleY
}

// flowerColor picks a pen for a flower type. Unknown types are cyan.
func flowerColor(idName string) draw.Color {
	switch strings.ToLower(idName) {
	case "yellow", "sunflower":
		return draw.ColorYellow
	case "red", "rose", "poppy":
		return draw.ColorRed
	case "blue", "cornflower":
		return draw.ColorBlue
	case "pink", "purple", "magenta", "lavender":
		return draw.ColorMagenta
	case "white", "daisy":
		return draw.ColorWhite
	case "green":
		return draw.ColorGreen
	}
	return draw.ColorCyan
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		c.drawWorld()
	}

	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(c.server.GetLeaderboard())

	return c.chunkWriter.Flush()
}

// drawWorld draws lanes, flowers, sparkles and the bee.
func (c *Client) drawWorld() {
	s := c.state.Session
	cfg := c.sessionOpts.Config

	// Dotted lane guides
	c.canvas.SetColor(draw.ColorGray)
	for _, lx := range []float64{-cfg.Spawn.XOffset, cfg.Spawn.XOffset} {
		vx, _ := toView(lx, 0)
		for vy := 1.0; vy < config.ViewHeight; vy += 6 {
			c.canvas.SetFloat(vx, vy)
		}
	}

	rx := cfg.Fall.FlowerRadius * viewScaleX
	ry := cfg.Fall.FlowerRadius * viewScaleY
	s.Scene.EachFlower(func(p scene.Position, b scene.Bloom) {
		vx, vy := toView(p.X, p.Y)
		c.canvas.SetColor(flowerColor(b.Definition.IDName))
		c.canvas.DrawEllipse(vx, vy, rx, ry, ellipseSegments, b.Full)
		// Stem
		c.canvas.SetColor(draw.ColorGreen)
		c.canvas.DrawLine(draw.Point{X: vx, Y: vy + ry}, draw.Point{X: vx, Y: vy + ry*1.6})
	})

	s.Scene.EachSparkle(func(p scene.Position, sp scene.Sparkle) {
		vx, vy := toView(p.X, p.Y)
		if sp.Faded() {
			c.canvas.SetColor(draw.ColorGray)
		} else {
			c.canvas.SetColor(draw.ColorYellow)
		}
		c.canvas.SetFloat(vx, vy)
	})

	c.drawBee()
}

// drawBee draws the body, a wing and a stinger pointing away from travel.
func (c *Client) drawBee() {
	b := c.state.Session.Bee
	vx, vy := toView(b.X, b.Y)
	rx := b.Radius() * viewScaleX
	ry := b.Radius() * viewScaleY * 0.8

	c.canvas.SetColor(draw.ColorWhite)
	c.canvas.DrawEllipse(vx, vy-ry*1.1, rx*0.6, ry*0.6, ellipseSegments/2, false)

	c.canvas.SetColor(draw.ColorYellow)
	c.canvas.DrawEllipse(vx, vy, rx, ry, ellipseSegments, true)

	dir := 1.0
	if b.FacingLeft {
		dir = -1
	}
	c.canvas.SetColor(draw.ColorGray)
	tail := vx - dir*rx
	c.canvas.DrawLine(draw.Point{X: tail, Y: vy}, draw.Point{X: tail - dir*rx*0.5, Y: vy})
	// Stripe
	c.canvas.DrawLine(draw.Point{X: vx, Y: vy - ry*0.7}, draw.Point{X: vx, Y: vy + ry*0.7})
}

// writeText writes s at a 1-based canvas position and marks the cells so the
// next Render repaints whatever the text covered.
func (c *Client) writeText(col, row int, s string) {
	c.writeColor(col, row, draw.ColorNone, s)
}

// writeColor is writeText in color.
func (c *Client) writeColor(col, row int, color draw.Color, s string) {
	c.chunkWriter.WriteAtColor(col, row, color, s)
	c.canvas.MarkTextDirty(col, row, len(s))
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(board *server.Leaderboard) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, board)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, board)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	title := "STILL THERE?"
	c.writeText(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"Disconnecting in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeText(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	c.writeText(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen with the last round and top scores.
func (c *Client) drawStartScreen(centerX, centerY int, board *server.Leaderboard) {
	titleArt := []string{
		` ___ _   _ _______ `,
		`| _ ) | | |_  /_  /`,
		`| _ \ |_| |/ / / / `,
		`|___/\___//___/___|`,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := max(1, centerY-12)
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ catch pollen, feed the flowers ~"
	c.writeText(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	c.writeText(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"A / <  . . . . Left lane",
		"D / >  . . .  Right lane",
		"ESC  . . . . .  End round",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeText(centerX-len(line)/2, controlsY+1+i, line)
	}

	row := controlsY + len(controlLines) + 2
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Start  <<"
		c.writeText(centerX-len(prompt)/2, row, prompt)
	}

	if c.state.Rounds > 0 {
		last := fmt.Sprintf("Last round: %d   Best: %d", c.state.LastScore, c.state.Best)
		c.writeText(centerX-len(last)/2, row+2, last)
	}

	if board == nil || len(board.TopScores) == 0 {
		return
	}
	header := "Top bees"
	c.writeText(centerX-len(header)/2, row+4, header)
	for i, entry := range board.TopScores {
		line := fmt.Sprintf("%d. %-*s %5d", i+1, config.MaxUsernameLength, entry.Username, entry.Score)
		c.writeText(centerX-len(line)/2, row+5+i, line)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, board *server.Leaderboard) {
	s := c.state.Session

	scoreColor := draw.ColorNone
	if c.state.flash > 0 {
		scoreColor = draw.ColorYellow
	}
	c.writeColor(2, 1, scoreColor, fmt.Sprintf("Score: %-6d", s.Score()))

	carrier := s.Carrier
	pips := strings.Repeat("*", carrier.Count()) + strings.Repeat(".", carrier.Max()-carrier.Count())
	pollenText := fmt.Sprintf("Pollen %s %-8s", pips, carrier.Type())
	pollenColor := draw.ColorNone
	if carrier.Count() > 0 {
		pollenColor = flowerColor(carrier.Type())
	}
	c.writeColor(termWidth-len(pollenText), 1, pollenColor, pollenText)

	bestText := fmt.Sprintf("Best: %-6d", max(c.state.Best, s.Score()))
	c.writeText(2, 2, bestText)

	intervalText := fmt.Sprintf("Every %.2fs", s.Engine.Scheduler().Interval())
	c.writeText(2, termHeight, intervalText)

	if board != nil {
		playersText := fmt.Sprintf("Bees: %d/%-3d", board.Playing, board.Players)
		c.writeText(termWidth-len(playersText)-1, termHeight, playersText)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	title := "SERVER SHUTTING DOWN"
	c.writeText(centerX-len(title)/2, centerY-3, title)

	msg1 := fmt.Sprintf("Your last round: %d", c.state.LastScore)
	c.writeText(centerX-len(msg1)/2, centerY-1, msg1)

	msg2 := "Please reconnect in a moment."
	c.writeText(centerX-len(msg2)/2, centerY, msg2)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	c.writeText(centerX-len(countdown)/2, centerY+2, countdown)

	hint := "Press Q to disconnect now"
	c.writeText(centerX-len(hint)/2, centerY+4, hint)
}
