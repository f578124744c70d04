// Package config loads gridpath settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/gridpath/internal/cost"
	"github.com/samdwyer/gridpath/internal/debuggrid"
	"github.com/samdwyer/gridpath/internal/grid"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all gridpath settings.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Cost      cost.Model      `yaml:"cost"`
	Map       MapConfig       `yaml:"map"`
	Debug     DebugConfig     `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// GridConfig sizes the traversal grid. A zero width or height takes the
// dimension from the loaded map.
type GridConfig struct {
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	CellSize grid.Vec3 `yaml:"cell_size"`
	Offset   grid.Vec3 `yaml:"offset"`
	Origin   grid.Vec3 `yaml:"origin"`
}

// MapConfig selects the terrain.
type MapConfig struct {
	Preset string `yaml:"preset"`
	// Seed overrides the preset's generator seed when non-zero.
	Seed int64 `yaml:"seed"`
}

// DebugConfig controls the visualization.
type DebugConfig struct {
	ClearOnFailure bool   `yaml:"clear_on_failure"`
	DisplayMode    string `yaml:"display_mode"`
}

// ServerConfig holds the HTTP debug API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// LogConfig controls logging.
type LogConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Grid: GridConfig{
			CellSize: grid.Vec3{X: 1, Y: 1},
		},
		Cost: cost.DefaultModel(),
		Map: MapConfig{
			Preset: "rooms",
		},
		Debug: DebugConfig{
			ClearOnFailure: true,
			DisplayMode:    debuggrid.ModePathing.String(),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			ServiceName: "gridpath",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(filename string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return cfg, nil
}

// MustLoad loads the configuration and panics on error.
func MustLoad(filename string) Config {
	cfg, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Environment variables read by ApplyEnv.
const (
	EnvPreset         = "GRIDPATH_PRESET"
	EnvSeed           = "GRIDPATH_SEED"
	EnvServerAddr     = "GRIDPATH_SERVER_ADDR"
	EnvLogVerbosity   = "GRIDPATH_LOG_VERBOSITY"
	EnvTelemetry      = "GRIDPATH_TELEMETRY"
	EnvClearOnFailure = "GRIDPATH_CLEAR_ON_FAILURE"
	EnvDisplayMode    = "GRIDPATH_DISPLAY_MODE"
)

// ApplyEnv overrides settings from GRIDPATH_* environment variables. Unset
// variables leave the value alone.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvPreset); ok {
		c.Map.Preset = v
	}
	if v, ok := os.LookupEnv(EnvServerAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvDisplayMode); ok {
		c.Debug.DisplayMode = v
	}

	var errs []error
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envError(EnvSeed, err))
		if err == nil {
			c.Map.Seed = seed
		}
	}
	if v, ok := os.LookupEnv(EnvLogVerbosity); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envError(EnvLogVerbosity, err))
		if err == nil {
			c.Log.Verbosity = n
		}
	}
	if v, ok := os.LookupEnv(EnvTelemetry); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envError(EnvTelemetry, err))
		if err == nil {
			c.Telemetry.Enabled = b
		}
	}
	if v, ok := os.LookupEnv(EnvClearOnFailure); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envError(EnvClearOnFailure, err))
		if err == nil {
			c.Debug.ClearOnFailure = b
		}
	}
	return errors.Join(errs...)
}

func envError(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Validate checks the settings for values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Grid.Width < 0 || c.Grid.Height < 0 {
		errs = append(errs, fmt.Errorf("%w: grid size %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height))
	}
	if err := c.Cost.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if c.Map.Preset == "" {
		errs = append(errs, fmt.Errorf("%w: map preset is empty", ErrInvalid))
	}
	if _, err := debuggrid.ParseDisplayMode(c.Debug.DisplayMode); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: server address is empty", ErrInvalid))
	}
	if c.Log.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("%w: log verbosity %d", ErrInvalid, c.Log.Verbosity))
	}
	return errors.Join(errs...)
}

// DisplayMode returns the parsed debug display mode, falling back to
// pathing for unknown values.
func (c Config) DisplayMode() debuggrid.DisplayMode {
	m, err := debuggrid.ParseDisplayMode(c.Debug.DisplayMode)
	if err != nil {
		return debuggrid.ModePathing
	}
	return m
}
