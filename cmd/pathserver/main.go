// Package main is the entry point for the HTTP path query server.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/gridpath/internal/bootstrap"
	"github.com/samdwyer/gridpath/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	preset := flag.String("preset", "", "map preset name (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Start(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		Preset:     *preset,
		LogOutput:  os.Stderr,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	listen := app.Config.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           server.SetupRoutes(app.Nav, app.Logger.WithName("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error(err, "server shutdown failed")
		}
	}()

	app.Logger.Info("listening", "addr", listen, "preset", app.Layout.Name)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server error: %v", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
