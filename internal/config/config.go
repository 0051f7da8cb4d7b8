package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/buzz/internal/bee"
	"github.com/tomz197/buzz/internal/flower"
	"github.com/tomz197/buzz/internal/spawn"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate for impossible tunings.
var ErrInvalid = errors.New("invalid config")

// Config holds all game tuning.
type Config struct {
	Spawn       SpawnConfig         `yaml:"spawn"`
	Fall        FallConfig          `yaml:"fall"`
	Bee         BeeConfig           `yaml:"bee"`
	CatalogFile string              `yaml:"catalog_file"` // CSV that replaces Flowers
	Flowers     []flower.Definition `yaml:"flowers"`
	Telemetry   TelemetryConfig     `yaml:"telemetry"`
	Log         LogConfig           `yaml:"log"`
	Debug       DebugConfig         `yaml:"debug"`
}

// SpawnConfig holds the difficulty curve.
type SpawnConfig struct {
	InitialInterval float64 `yaml:"initial_interval"` // Seconds between the first spawns
	MinInterval     float64 `yaml:"min_interval"`     // Floor for the interval
	Decay           float64 `yaml:"decay"`            // Interval multiplier per spawn
	SpawnY          float64 `yaml:"spawn_y"`
	XOffset         float64 `yaml:"x_offset"` // Lane distance from the centre line
}

// FallConfig holds falling flower parameters.
type FallConfig struct {
	Speed        float64 `yaml:"speed"`
	DestroyY     float64 `yaml:"destroy_y"`
	FlowerRadius float64 `yaml:"flower_radius"`
}

// BeeConfig holds the player's flight parameters.
type BeeConfig struct {
	MaxPollen       int     `yaml:"max_pollen"`
	BaseRiseSpeed   float64 `yaml:"base_rise_speed"`
	WeightPerPollen float64 `yaml:"weight_per_pollen"`
	SideSpeed       float64 `yaml:"side_speed"`
	XLimit          float64 `yaml:"x_limit"`
	MinY            float64 `yaml:"min_y"`
	MaxY            float64 `yaml:"max_y"`
	StartY          float64 `yaml:"start_y"`
	Radius          float64 `yaml:"radius"`
	FixedStep       float64 `yaml:"fixed_step"` // Seconds per motion step
}

// TelemetryConfig holds event recording settings.
type TelemetryConfig struct {
	Dir string `yaml:"dir"` // Empty disables recording
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	Strict bool  `yaml:"strict"` // Fail on duplicate identities instead of logging them
	Seed   int64 `yaml:"seed"`   // Zero picks a random seed
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by BUZZ_CONFIG and applies the
// environment overrides.
func LoadFromEnv() (*Config, error) {
	cfg, err := Load(GetEnv("BUZZ_CONFIG", ""))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from BUZZ_LOG_LEVEL, BUZZ_TELEMETRY_DIR and BUZZ_SEED.
func (c *Config) ApplyEnv() {
	c.Log.Level = GetEnv("BUZZ_LOG_LEVEL", c.Log.Level)
	c.Telemetry.Dir = GetEnv("BUZZ_TELEMETRY_DIR", c.Telemetry.Dir)
	c.Debug.Seed = GetEnvInt("BUZZ_SEED", c.Debug.Seed)
}

// Validate rejects tunings the game cannot run with.
func (c *Config) Validate() error {
	s := c.Spawn
	switch {
	case s.MinInterval <= 0:
		return fmt.Errorf("%w: spawn.min_interval must be positive, got %v", ErrInvalid, s.MinInterval)
	case s.InitialInterval < s.MinInterval:
		return fmt.Errorf("%w: spawn.initial_interval %v below min_interval %v", ErrInvalid, s.InitialInterval, s.MinInterval)
	case s.Decay <= 0 || s.Decay > 1:
		return fmt.Errorf("%w: spawn.decay must be in (0, 1], got %v", ErrInvalid, s.Decay)
	case s.XOffset < 0:
		return fmt.Errorf("%w: spawn.x_offset must not be negative, got %v", ErrInvalid, s.XOffset)
	}

	f := c.Fall
	switch {
	case f.Speed <= 0:
		return fmt.Errorf("%w: fall.speed must be positive, got %v", ErrInvalid, f.Speed)
	case f.DestroyY >= s.SpawnY:
		return fmt.Errorf("%w: fall.destroy_y %v must be below spawn.spawn_y %v", ErrInvalid, f.DestroyY, s.SpawnY)
	case f.FlowerRadius <= 0:
		return fmt.Errorf("%w: fall.flower_radius must be positive, got %v", ErrInvalid, f.FlowerRadius)
	}

	b := c.Bee
	switch {
	case b.MaxPollen < 1:
		return fmt.Errorf("%w: bee.max_pollen must be at least 1, got %d", ErrInvalid, b.MaxPollen)
	case b.MinY >= b.MaxY:
		return fmt.Errorf("%w: bee.min_y %v must be below max_y %v", ErrInvalid, b.MinY, b.MaxY)
	case b.StartY < b.MinY || b.StartY > b.MaxY:
		return fmt.Errorf("%w: bee.start_y %v outside [%v, %v]", ErrInvalid, b.StartY, b.MinY, b.MaxY)
	case b.FixedStep <= 0:
		return fmt.Errorf("%w: bee.fixed_step must be positive, got %v", ErrInvalid, b.FixedStep)
	case b.SideSpeed < 0:
		return fmt.Errorf("%w: bee.side_speed must not be negative, got %v", ErrInvalid, b.SideSpeed)
	case b.Radius <= 0:
		return fmt.Errorf("%w: bee.radius must be positive, got %v", ErrInvalid, b.Radius)
	}
	return nil
}

// Catalog builds the flower catalog, reading CatalogFile when set.
func (c *Config) Catalog() (*flower.Catalog, error) {
	defs := c.Flowers
	if c.CatalogFile != "" {
		var err error
		defs, err = ReadCatalogFile(c.CatalogFile)
		if err != nil {
			return nil, err
		}
	}
	return flower.NewCatalog(defs)
}

// SpawnSettings converts the spawn section for the scheduler.
func (c *Config) SpawnSettings() spawn.Settings {
	return spawn.Settings{
		InitialInterval: c.Spawn.InitialInterval,
		MinInterval:     c.Spawn.MinInterval,
		Decay:           c.Spawn.Decay,
		SpawnY:          c.Spawn.SpawnY,
		XOffset:         c.Spawn.XOffset,
	}
}

// BeeSettings converts the bee section for the flight model.
func (c *Config) BeeSettings() bee.Settings {
	return bee.Settings{
		SideSpeed:       c.Bee.SideSpeed,
		XLimit:          c.Bee.XLimit,
		BaseRiseSpeed:   c.Bee.BaseRiseSpeed,
		WeightPerPollen: c.Bee.WeightPerPollen,
		MinY:            c.Bee.MinY,
		MaxY:            c.Bee.MaxY,
		Radius:          c.Bee.Radius,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
