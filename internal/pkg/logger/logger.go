package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. format is "console" or "json"; level is any
// zerolog level name and defaults to info when empty.
// The standard library logger is redirected into the returned logger.
func New(format, level string) (zerolog.Logger, error) {
	return newWithWriter(format, level, os.Stdout)
}

func newWithWriter(format, level string, out io.Writer) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("unknown log level %q: %w", level, err)
		}
		lvl = parsed
	}

	var logger zerolog.Logger
	switch format {
	case "", "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	case "json":
		logger = zerolog.New(out).With().Timestamp().Logger()
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (one of 'json', 'console')", format)
	}
	logger = logger.Level(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)

	return logger, nil
}
