// Package logging builds the zerolog.Logger injected into every component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the logger built by New.
type Config struct {
	Level  string
	Format string // json or console
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a logger for cfg. Unknown levels fall back to info.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().
		Logger()
}

// NewCLI discards everything unless verbose is set, matching the CLI's
// quiet-by-default behavior.
func NewCLI(cfg Config, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	if cfg.Level == "" || ParseLevel(cfg.Level) > zerolog.DebugLevel {
		cfg.Level = "debug"
	}
	return New(cfg)
}

// ParseLevel maps a level name to its zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
