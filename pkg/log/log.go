// Package log wires zerolog into the training pipeline.
//
// As a library, automl stays quiet: the package-level logger defaults to
// zerolog.Nop, so importing the pipeline never writes to a caller's stdout.
// A front end (the CLI, a server) calls Setup once at startup to enable
// structured output; pipeline stages then emit events tagged with the
// component name.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Setup configures the process-wide logger. Pass console=true for
// human-readable output, false for JSON.
func Setup(level string, console bool) {
	var w io.Writer = os.Stderr
	if console {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	l := zerolog.New(w).Level(toLevel(level)).With().Timestamp().Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetLogger replaces the process-wide logger. Tests use this to capture
// output.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the process-wide logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns a logger tagged with a pipeline component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

func toLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
