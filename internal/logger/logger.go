package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Dev gets a human readable console
// writer, prod gets one JSON object per line.
func New(stage, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, stage, level)
}

func NewWithWriter(w io.Writer, stage, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if stage != "prod" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "battleship-placement").
		Logger()
}
