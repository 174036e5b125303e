// Package logging builds the zerolog logger shared by the commands.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Setup.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// Console writes human-readable lines instead of JSON.
	Console bool
}

// Setup returns a logger writing to w. An unknown level is an error.
func Setup(w io.Writer, opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = l
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Game tags a logger with a game id.
func Game(log zerolog.Logger, id string) zerolog.Logger {
	return log.With().Str("game", id).Logger()
}
