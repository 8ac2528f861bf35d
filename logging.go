package departures

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogging configures the global zerolog logger. format is "console" or
// "json"; level is any zerolog level name.
func InitLogging(level, format string) error {
	return initLogging(os.Stdout, level, format)
}

func initLogging(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	switch format {
	case "", "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	case "json":
		logger = zerolog.New(w)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	log.Logger = logger.Level(lvl).With().Timestamp().Logger()
	return nil
}
