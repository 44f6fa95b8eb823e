// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Init sets the global level and output. Console output is used when stderr
// is a terminal, JSON lines otherwise. verbose forces debug level.
func Init(level string, verbose bool) {
	Setup(os.Stderr, level, verbose, term.IsTerminal(int(os.Stderr.Fd())))
}

// Setup is Init with an explicit writer and console choice.
func Setup(w io.Writer, level string, verbose, console bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
