// Package logging wraps zerolog behind the small logger surface the rest
// of the service uses.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a structured logger. Methods accept alternating key/value
// pairs after the message.
type Logger struct {
	zlog zerolog.Logger
}

// NewLogger creates a new Logger writing JSON to stdout at the given
// level. Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(parseLevel(level))
	return &Logger{zlog: zlog}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", component).Logger()}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(l.zlog.Info(), msg, args)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(l.zlog.Warn(), msg, args)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(l.zlog.Error(), msg, args)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(l.zlog.Debug(), msg, args)
}

func (l *Logger) emit(e *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, args[i+1])
	}
	e.Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
