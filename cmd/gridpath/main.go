// Package main is the entry point for the interactive grid path viewer.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/gridpath/internal/bootstrap"
	"github.com/samdwyer/gridpath/internal/ui"
	"github.com/samdwyer/gridpath/internal/viewer"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	preset := flag.String("preset", "", "map preset name (overrides config)")
	logPath := flag.String("log", "", "write logs to this file; the terminal belongs to the viewer")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	var logOutput io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOutput = f
	}

	ctx := context.Background()

	app, err := bootstrap.Start(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		Preset:     *preset,
		LogOutput:  logOutput,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := app.Close(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	screen, err := ui.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	v := viewer.New(screen, app.Nav, app.Terrain,
		viewer.WithEndpoints(app.Start, app.Dest),
		viewer.WithLogger(app.Logger.WithName("viewer")),
	)
	if err := v.Run(ctx); err != nil {
		log.Printf("Viewer error: %v", err)
	}
}
