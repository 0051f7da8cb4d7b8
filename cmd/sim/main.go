// Command sim runs the game headless with an autopilot bee and prints a
// telemetry summary, for tuning the difficulty curve and flower catalog.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tomz197/buzz/internal/bee"
	"github.com/tomz197/buzz/internal/config"
	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/game"
	"github.com/tomz197/buzz/internal/logging"
	"github.com/tomz197/buzz/internal/loop/session"
	"github.com/tomz197/buzz/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	duration := flag.Float64("duration", 120, "Simulated seconds")
	frameRate := flag.Int("fps", 60, "Simulated frames per second")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	autopilot := flag.Bool("autopilot", true, "Steer the bee toward useful flowers")
	lookahead := flag.Float64("lookahead", 8, "Autopilot lookahead in world units (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Directory for events.csv and a config snapshot (overrides telemetry.dir)")
	dumpCatalog := flag.String("dump-catalog", "", "Write the active flower catalog as CSV and exit")
	trace := flag.Bool("trace", false, "Log every engine event at debug level")
	flag.Parse()

	logger, err := logging.New(os.Stderr, "info", "sim")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(logger, options{
		configPath:  *configPath,
		duration:    *duration,
		frameRate:   *frameRate,
		seed:        *seed,
		autopilot:   *autopilot,
		lookahead:   *lookahead,
		outputDir:   *outputDir,
		dumpCatalog: *dumpCatalog,
		trace:       *trace,
	}); err != nil {
		logger.Fatal("sim failed", "err", err)
	}
}

type options struct {
	configPath  string
	duration    float64
	frameRate   int
	seed        int64
	autopilot   bool
	lookahead   float64
	outputDir   string
	dumpCatalog string
	trace       bool
}

func run(logger *log.Logger, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if opts.outputDir != "" {
		cfg.Telemetry.Dir = opts.outputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if opts.frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", opts.frameRate)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	for _, w := range flower.Lint(catalog) {
		logger.Warn("catalog", "issue", w)
	}
	if opts.dumpCatalog != "" {
		return dump(opts.dumpCatalog, catalog)
	}

	rec, err := telemetry.Open(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = telemetry.NewRecorder(nil)
	} else if err := cfg.WriteYAML(filepath.Join(cfg.Telemetry.Dir, "config.yaml")); err != nil {
		return err
	}
	defer rec.Close()

	s, err := session.New(session.Options{
		Config:    cfg,
		Catalog:   catalog,
		Seed:      opts.seed,
		Logger:    logger,
		Observers: []game.Observer{rec},
	})
	if err != nil {
		return err
	}

	if opts.trace {
		logger.SetLevel(log.DebugLevel)
		s.Engine.AddObserver(game.ObserverFunc(func(ev game.Event) {
			logger.Debug(ev.Type.String(), "t", ev.Time, "id", ev.Object.ID, "flower", ev.Object.Definition.IDName,
				"carried", ev.Carried, "score", ev.Score)
		}))
	}

	pilot := bee.Autopilot{Lookahead: opts.lookahead}
	dt := 1 / float64(opts.frameRate)
	frames := int(opts.duration * float64(opts.frameRate))
	for i := 0; i < frames; i++ {
		if opts.autopilot {
			pilot.Steer(s.Bee, s.Carrier, s.Flowers())
		}
		if _, err := s.Update(dt, session.SteerNone); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if err := rec.Err(); err != nil {
		return err
	}
	sum := rec.Summary()
	logger.Info("done", "seconds", opts.duration, "interval", s.Engine.Scheduler().Interval(), "score", s.Score())
	fmt.Println(sum.String())
	return nil
}

func dump(path string, catalog *flower.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return config.WriteCatalog(f, catalog.Definitions())
}
