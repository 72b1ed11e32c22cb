// Package logger configures the global zerolog logger for the fabricctl
// CLI. Output goes to stderr so it never mixes with command output on
// stdout; the --verbose flag drops the level from warn to debug.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Verbose enables debug-level output,
// which includes every API request with a masked token preview.
func Setup(verbose bool) {
	SetupWithWriter(os.Stderr, verbose)
}

// SetupWithWriter is Setup with an explicit destination. Used by tests.
func SetupWithWriter(w io.Writer, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	log.Logger = zerolog.New(console).Level(level).With().Timestamp().Logger()
}
