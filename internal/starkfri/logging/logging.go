// Package logging provides a configurable logger shared by every
// stark-fri-core component, following the same pattern gnark uses for its
// package-level logger: github.com/rs/zerolog with a console writer by
// default, silenced under go test.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set lets a caller override the global logger entirely.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable silences all logging.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the shared logger.
func Logger() *zerolog.Logger {
	return &logger
}
