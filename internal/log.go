package internal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE (any case) to a level.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError, nil
	case "WARN":
		return LogLevelWarn, nil
	case "INFO", "":
		return LogLevelInfo, nil
	case "DEBUG":
		return LogLevelDebug, nil
	case "TRACE":
		return LogLevelTrace, nil
	}
	return LogLevelInfo, fmt.Errorf("invalid log level %q", s)
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelTrace:
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

// Logger provides leveled logging
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new logger with the specified level, writing JSON lines to w
func NewLogger(level LogLevel, w io.Writer) *Logger {
	zl := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewPrettyLogger writes human-readable lines to w
func NewPrettyLogger(level LogLevel, w io.Writer) *Logger {
	writer := zerolog.ConsoleWriter{Out: w, NoColor: true}
	writer.FormatFieldValue = func(i interface{}) string {
		return fmt.Sprintf("%v", i)
	}
	return NewLogger(level, writer)
}

// NewDefaultLogger creates a logger based on LOG_LEVEL and LOG_FORMAT environment variables
func NewDefaultLogger() *Logger {
	return NewConfiguredLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
}

// NewConfiguredLogger builds a logger from a level name and a format of
// "json" or "pretty". An unknown level falls back to INFO.
func NewConfiguredLogger(levelName, format string, w io.Writer) *Logger {
	level, err := ParseLogLevel(levelName)
	if err != nil {
		level = LogLevelInfo
	}
	if strings.EqualFold(format, "json") {
		return NewLogger(level, w)
	}
	return NewPrettyLogger(level, w)
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying key=value on every line
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	l.zl.Trace().Msgf(format, args...)
}

// GetLevel returns the current log level. A disabled logger reports ERROR.
func (l *Logger) GetLevel() LogLevel {
	switch l.zl.GetLevel() {
	case zerolog.TraceLevel:
		return LogLevelTrace
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.InfoLevel:
		return LogLevelInfo
	case zerolog.WarnLevel:
		return LogLevelWarn
	}
	return LogLevelError
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
