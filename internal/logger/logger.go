// Package logger builds the zerolog logger used for progress reporting.
// Progress goes to stderr so stdout stays free for command output.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

// New returns a logger writing to w. Unknown levels fall back to info;
// format "pretty" selects the human-readable console writer, anything else
// emits JSON lines.
func New(w io.Writer, cfg types.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
