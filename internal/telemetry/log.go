package telemetry

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel"
)

// NewLogger returns a stdr-backed logger writing to stderr. Messages logged
// with V(n) are shown when n <= verbosity.
func NewLogger(verbosity int) logr.Logger {
	return NewLoggerTo(os.Stderr, verbosity)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(w, "", log.LstdFlags|log.Lmicroseconds))
}

// InstallLogger routes OpenTelemetry's internal diagnostics through logger.
func InstallLogger(logger logr.Logger) {
	otel.SetLogger(logger.WithName("otel"))
}
