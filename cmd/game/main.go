package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/buzz/internal/config"
	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/logging"
	"github.com/tomz197/buzz/internal/loop/client"
	"github.com/tomz197/buzz/internal/loop/server"
	"github.com/tomz197/buzz/internal/loop/session"
	"github.com/tomz197/buzz/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("BUZZ_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(logOut, cfg.Log.Level, "buzz")
	if err != nil {
		return err
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	for _, w := range flower.Lint(catalog) {
		logger.Warn("catalog", "issue", w)
	}

	rec, err := telemetry.Open(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	var observers []game.Observer
	if rec != nil {
		observers = append(observers, rec)
	}

	hub := server.NewServer(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}

	c := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "bee"),
		Session: session.Options{
			Config:    cfg,
			Catalog:   catalog,
			Observers: observers,
		},
		Logger: logger,
	})
	runErr := c.Run()
	_ = term.Restore(fd, oldState)

	if rec != nil {
		if err := rec.Close(); err != nil {
			logger.Error("telemetry", "err", err)
		}
		logger.Info("telemetry", "summary", rec.Summary().String())
	}
	logFinal(logger, hub.GetLeaderboard())
	return runErr
}

func logFinal(logger *log.Logger, board *server.Leaderboard) {
	for _, e := range board.TopScores {
		logger.Info("best", "user", e.Username, "score", e.Score)
	}
}
