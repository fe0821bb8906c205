package contract

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. It writes human-readable lines to stderr
// so stdout stays reserved for reports.
var Logger = NewLogger(os.Stderr, zerolog.InfoLevel)

// NewLogger returns a console logger at the given level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLogLevel parses a log level name. An empty name means info.
func ParseLogLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(s))
}

// SetLogLevel replaces the global logger with one at the given level.
func SetLogLevel(level zerolog.Level) {
	Logger = NewLogger(os.Stderr, level)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.Warn().Err(err).Msg(msg)
}
