// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel keeps command output free of diagnostics unless asked for.
const DefaultLevel = zerolog.WarnLevel

// Init sets up the global logger writing human-readable lines to w (stderr if nil).
func Init(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Discard silences logging entirely (TUI mode owns the terminal).
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}

// ParseLevel maps a level name to a zerolog level, falling back to DefaultLevel.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return DefaultLevel
	}
	return lvl
}
