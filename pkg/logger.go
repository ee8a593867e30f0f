package pkg

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelErrOnly
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "none"
	case LogLevelErrOnly:
		return "error"
	case LogLevelDebug:
		return "debug"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LogLevelNone, nil
	case "", "error", "err":
		return LogLevelErrOnly, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelErrOnly, fmt.Errorf("invalid log level %q", s)
}

var log_level = LogLevelErrOnly

var logger = newLogger(os.Stderr).Level(zerolog.ErrorLevel)

func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func SetLogLevel(level LogLevel) {
	log_level = level

	switch level {
	case LogLevelNone:
		logger = logger.Level(zerolog.Disabled)
	case LogLevelErrOnly:
		logger = logger.Level(zerolog.ErrorLevel)
	case LogLevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	}
	logger.Debug().Msg("log level set to " + level.String())
}

func GetLogLevel() LogLevel { return log_level }

// SetLogOutput redirects every log line to w, keeping the current level.
func SetLogOutput(w io.Writer) {
	logger = newLogger(w)
	SetLogLevel(log_level)
}

func sprint(v []any) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}

func InfoLog(v ...any)  { logger.Info().Msg(sprint(v)) }
func ErrorLog(v ...any) { logger.Error().Msg(sprint(v)) }
func WarnLog(v ...any)  { logger.Warn().Msg(sprint(v)) }
func DebugLog(v ...any) { logger.Debug().Msg(sprint(v)) }

// FatalLog exits the process even when logging is turned off.
func FatalLog(v ...any) {
	logger.WithLevel(zerolog.FatalLevel).Msg(sprint(v))
	os.Exit(1)
}
