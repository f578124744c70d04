// Package bootstrap wires configuration, telemetry, terrain and the
// navigation manager together for the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/samdwyer/gridpath/internal/config"
	"github.com/samdwyer/gridpath/internal/grid"
	"github.com/samdwyer/gridpath/internal/navigation"
	"github.com/samdwyer/gridpath/internal/presets"
	"github.com/samdwyer/gridpath/internal/telemetry"
	"github.com/samdwyer/gridpath/internal/world"
)

// Options selects what to load. Empty fields fall back to the config.
type Options struct {
	ConfigPath string
	Preset     string
	LogOutput  io.Writer
}

// App is a ready-to-use navigation stack.
type App struct {
	Config  config.Config
	Logger  logr.Logger
	Layout  presets.Layout
	Terrain *world.TileMap
	Nav     *navigation.Manager
	Start   grid.Index
	Dest    grid.Index

	shutdown func(context.Context) error
}

// LoadConfig reads the config file if one is named, applies GRIDPATH_*
// overrides and validates the result.
func LoadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Start loads everything and builds the initial path grid. Telemetry
// failures are logged and do not stop startup.
func Start(ctx context.Context, opts Options) (*App, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Preset != "" {
		cfg.Map.Preset = opts.Preset
	}

	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := telemetry.NewLoggerTo(out, cfg.Log.Verbosity)
	telemetry.InstallLogger(logger)

	app := &App{Config: cfg, Logger: logger}
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logger.Info("telemetry setup failed, running without observability", "error", err.Error())
		} else {
			app.shutdown = shutdown
		}
	}

	if err := app.loadTerrain(ctx); err != nil {
		return nil, errors.Join(err, app.Close(ctx))
	}

	navCfg := navigation.Config{
		Width:          cfg.Grid.Width,
		Height:         cfg.Grid.Height,
		CellSize:       cfg.Grid.CellSize,
		Offset:         cfg.Grid.Offset,
		Origin:         cfg.Grid.Origin,
		Cost:           cfg.Cost,
		ClearOnFailure: cfg.Debug.ClearOnFailure,
	}
	if navCfg.Width == 0 {
		navCfg.Width = app.Terrain.Width
	}
	if navCfg.Height == 0 {
		navCfg.Height = app.Terrain.Height
	}

	nav, err := navigation.New(navCfg, app.Terrain, navigation.WithLogger(logger.WithName("navigation")))
	if err != nil {
		return nil, errors.Join(err, app.Close(ctx))
	}
	if err := nav.BuildPathGrid(ctx); err != nil {
		return nil, errors.Join(err, app.Close(ctx))
	}
	if board := nav.Board(); board != nil {
		board.SetDisplayMode(cfg.DisplayMode())
	}
	app.Nav = nav

	logger.Info("navigation ready", "preset", app.Layout.Name,
		"width", navCfg.Width, "height", navCfg.Height,
		"start", app.Start.String(), "destination", app.Dest.String())
	return app, nil
}

func (a *App) loadTerrain(ctx context.Context) error {
	registry, err := presets.LoadRegistry()
	if err != nil {
		return err
	}
	layout, err := registry.Get(a.Config.Map.Preset)
	if err != nil {
		return fmt.Errorf("%w (have %v)", err, registry.Names())
	}
	if a.Config.Map.Seed != 0 && layout.Generate != nil {
		gen := *layout.Generate
		gen.Seed = a.Config.Map.Seed
		layout.Generate = &gen
	}

	terrain, err := layout.TileMap(ctx)
	if err != nil {
		return err
	}
	a.Layout, a.Terrain = layout, terrain
	a.Start, a.Dest = layout.Endpoints(terrain)
	return nil
}

// Close flushes and stops telemetry.
func (a *App) Close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	err := a.shutdown(ctx)
	a.shutdown = nil
	return err
}
