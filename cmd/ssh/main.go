package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/buzz/internal/config"
	"github.com/tomz197/buzz/internal/draw"
	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/game"
	buzzlog "github.com/tomz197/buzz/internal/logging"
	"github.com/tomz197/buzz/internal/loop/client"
	"github.com/tomz197/buzz/internal/loop/server"
	"github.com/tomz197/buzz/internal/loop/session"
	"github.com/tomz197/buzz/internal/telemetry"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// app holds what every SSH session shares.
type app struct {
	hub      *server.Server
	cfg      *config.Config
	catalog  *flower.Catalog
	logger   *log.Logger
	sessions atomic.Int64
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := buzzlog.New(os.Stderr, cfg.Log.Level, "buzz")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		logger.Fatal("loading catalog", "err", err)
	}
	for _, w := range flower.Lint(catalog) {
		logger.Warn("catalog", "issue", w)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "flowers", catalog.Len())

	// Shared hub for all SSH clients
	ctx, cancelHub := context.WithCancel(context.Background())
	a := &app{
		hub:     server.NewServer(logger.WithPrefix("hub")),
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
	}
	go a.hub.Run(ctx)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down, notifying connected players")

	// Notify players and wait for them to disconnect
	a.hub.Shutdown(15 * time.Second)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		n := a.sessions.Add(1)
		logger := a.logger.With("user", sess.User(), "session", n)
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		rec, err := a.openRecorder(n, sess.User())
		if err != nil {
			logger.Error("telemetry disabled for session", "err", err)
		}
		var observers []game.Observer
		if rec != nil {
			observers = append(observers, rec)
		}

		c := client.NewClient(a.hub, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Session: session.Options{
				Config:    a.cfg,
				Catalog:   a.catalog,
				Observers: observers,
			},
			Logger: logger,
		})
		if err := c.Run(); err != nil {
			logger.Error("game error", "err", err)
		}

		if rec != nil {
			if err := rec.Close(); err != nil {
				logger.Error("closing telemetry", "err", err)
			}
			logger.Info("session telemetry", "summary", rec.Summary().String())
		}
		logger.Info("session ended")
		next(sess)
	}
}

// openRecorder gives each session its own telemetry directory.
// Returns nil when telemetry is disabled.
func (a *app) openRecorder(n int64, user string) (*telemetry.Recorder, error) {
	if a.cfg.Telemetry.Dir == "" {
		return nil, nil
	}
	dir := filepath.Join(a.cfg.Telemetry.Dir, fmt.Sprintf("%06d-%s", n, filepath.Base(filepath.Clean("/"+user))))
	return telemetry.Open(dir)
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
