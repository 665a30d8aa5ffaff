package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets a console writer, everything else
// gets JSON lines on stdout.
func New(level string, development bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if development {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// Module tags every entry with the component that wrote it.
func Module(l zerolog.Logger, module string) zerolog.Logger {
	return l.With().Str("module", module).Logger()
}
