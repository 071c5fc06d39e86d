package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New crea el logger de la app sobre zerolog.
// En dev (pretty=true) sale por consola legible; en prod JSON a stdout.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stdout)
	}

	return l.Level(lvl).With().Timestamp().Str("app", "pawlume-server").Logger()
}
