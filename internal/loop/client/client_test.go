package client

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	gameconfig "github.com/tomz197/buzz/internal/config"
	"github.com/tomz197/buzz/internal/draw"
	"github.com/tomz197/buzz/internal/loop/config"
	"github.com/tomz197/buzz/internal/loop/server"
	"github.com/tomz197/buzz/internal/loop/session"
)

func newTestClient(t *testing.T) (*Client, *server.Server, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	c, hub := newTestClientIO(t, strings.NewReader(""), out)
	return c, hub, out
}

func newTestClientIO(t *testing.T, r io.Reader, w io.Writer) (*Client, *server.Server) {
	t.Helper()
	cfg, err := gameconfig.Load("")
	if err != nil {
		t.Fatal(err)
	}
	hub := server.NewServer(nil)
	c := NewClient(hub, bufio.NewReader(r), w, ClientOptions{
		Username:     "tester",
		TermSizeFunc: func() (int, int, error) { return config.MaxTermWidth, config.MaxTermHeight, nil },
		Session:      session.Options{Config: cfg, Seed: 3},
	})
	hub.Step()
	return c, hub
}

// brokenWriter fails every write, like a dropped connection.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestToView(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		vx, vy float64
	}{
		{"top left", config.WorldMinX, config.WorldMaxY, 0, 0},
		{"bottom right", config.WorldMaxX, config.WorldMinY, config.ViewWidth, config.ViewHeight},
		{"centre column", 0, config.WorldMaxY, config.ViewWidth / 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vx, vy := toView(tt.x, tt.y)
			if diff(vx, tt.vx) > 1e-9 || diff(vy, tt.vy) > 1e-9 {
				t.Errorf("toView(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, vx, vy, tt.vx, tt.vy)
			}
		})
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestFlowerColor(t *testing.T) {
	if got := flowerColor("Yellow"); got != draw.ColorYellow {
		t.Errorf("Yellow = %v", got)
	}
	if got := flowerColor("RED"); got != draw.ColorRed {
		t.Errorf("RED = %v", got)
	}
	if got := flowerColor("Orchid"); got != draw.ColorCyan {
		t.Errorf("unknown type = %v, want cyan", got)
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(config.MaxTermWidth+10, config.MaxTermHeight+4)
	if w != config.MaxTermWidth || h != config.MaxTermHeight || col != 5 || row != 2 {
		t.Errorf("got %d,%d offset %d,%d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(20, 10)
	if w != 20 || h != 10 || col != 0 || row != 0 {
		t.Errorf("small terminal: got %d,%d offset %d,%d", w, h, col, row)
	}
}

func TestRoundLifecycle(t *testing.T) {
	c, hub, out := newTestClient(t)

	if err := c.startGame(); err != nil {
		t.Fatal(err)
	}
	if c.state.GameState != GameStatePlaying || c.state.Session == nil {
		t.Fatalf("state = %v, want playing", c.state.GameState)
	}

	c.state.delta = 16 * time.Millisecond
	for i := 0; i < 10; i++ {
		c.updatePlayingState()
	}
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Score:") {
		t.Error("playing frame has no score HUD")
	}

	hub.Step()
	if board := hub.GetLeaderboard(); board.Playing != 1 {
		t.Errorf("hub sees %d playing, want 1", board.Playing)
	}

	c.state.Input.Escape = true
	c.updatePlayingState()
	if c.state.GameState != GameStateStart || c.state.Session != nil {
		t.Fatalf("escape did not end the round: state %v", c.state.GameState)
	}
	if c.state.Rounds != 1 {
		t.Errorf("rounds = %d, want 1", c.state.Rounds)
	}

	hub.Step()
	if board := hub.GetLeaderboard(); board.Playing != 0 {
		t.Errorf("hub sees %d playing after the round, want 0", board.Playing)
	}
}

func TestShutdownEndsRound(t *testing.T) {
	c, hub, _ := newTestClient(t)
	if err := c.startGame(); err != nil {
		t.Fatal(err)
	}

	go hub.Shutdown(10 * time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for c.state.GameState != GameStateShutdown && time.Now().Before(deadline) {
		c.processServerEvents()
		time.Sleep(time.Millisecond)
	}
	if c.state.GameState != GameStateShutdown {
		t.Fatal("shutdown event never arrived")
	}
	if c.state.Session != nil {
		t.Error("round still running during shutdown")
	}

	c.state.delta = time.Duration(config.ShutdownDisplaySeconds+1) * time.Second
	c.updateShutdownState()
	if c.state.Running {
		t.Error("client still running after the shutdown countdown")
	}
}

func TestWriteErrorLeavesHub(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c, hub := newTestClientIO(t, pr, brokenWriter{})
	if err := c.startGame(); err != nil {
		t.Fatal(err)
	}
	hub.Step()
	if board := hub.GetLeaderboard(); board.Players != 1 || board.Playing != 1 {
		t.Fatalf("before Run: %d players, %d playing", board.Players, board.Playing)
	}

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run returned nil on a broken writer")
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return on a broken writer")
	}

	if c.state.Session != nil {
		t.Error("round still running after Run returned")
	}
	hub.Step()
	board := hub.GetLeaderboard()
	if board.Players != 0 || board.Playing != 0 {
		t.Errorf("after Run: %d players, %d playing, want 0 and 0", board.Players, board.Playing)
	}
}
