// Package logger provides leveled logging for supportdesk.
// Messages are written with zerolog to stderr. By default Debug and Info
// messages are only emitted in verbose mode (the --verbose flag); SetLevel
// lowers the threshold without enabling verbose mode. Warnings and errors
// are always emitted.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	pretty  bool
	base              = zerolog.WarnLevel
	output  io.Writer = os.Stderr
	log               = build()
)

// build creates the zerolog logger for the current settings (caller must hold lock).
func build() zerolog.Logger {
	w := output
	if pretty {
		w = zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: "15:04:05"}
	}

	level := base
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// SetLevel sets the minimum level used when verbose mode is off.
// Accepts zerolog level names ("debug", "info", "warn", "error").
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	mu.Lock()
	defer mu.Unlock()
	base = lvl
	log = build()
	return nil
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetPretty switches between JSON lines and human-readable console output.
func SetPretty(p bool) {
	mu.Lock()
	defer mu.Unlock()
	pretty = p
	log = build()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build()
}

// Logger returns the underlying zerolog logger for structured fields.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error logs an error with a message.
func Error(err error, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Err(err).Msgf(format, args...)
}
