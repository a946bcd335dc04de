// Package logger builds the structured logger shared by chancekeeper services.
// Output is JSON by default; console output is meant for local development.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/solatis/chancekeeper/internal/core/config"
)

// New returns a logger writing to os.Stdout.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter returns a logger writing to w, with the service name and
// version attached to every event.
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	if cfg == nil {
		panic("logger: config cannot be nil")
	}

	if cfg.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Log.Level)).
		With().
		Timestamp().
		Str("service", cfg.Name).
		Str("version", cfg.Version).
		Logger()
}

// ParseLevel converts a level name to a zerolog.Level. Defaults to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
