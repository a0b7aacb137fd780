// Package log provides the leveled diagnostic sink shared by the CLI
// commands. Diagnostics are written to stderr so stdout stays clean for
// probe output; the numeric verbosity scale of the CLI (0-3) maps onto
// slog levels here.
package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/ordbanken/altmorph/internal/config"
)

// Logger wraps slog.Logger with the CLI's verbosity semantics.
type Logger struct {
	logger    *slog.Logger
	verbosity int
}

// New creates a Logger writing to w in the given format, filtered by
// verbosity.
func New(w io.Writer, format config.LogFormat, verbosity int) *Logger {
	level := LevelForVerbosity(verbosity)

	var handler slog.Handler
	switch format {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = newTerminalHandler(w, level)
	}

	return &Logger{logger: slog.New(handler), verbosity: verbosity}
}

// Default returns a pretty stderr logger at normal verbosity.
func Default() *Logger {
	return New(os.Stderr, config.LogFormatPretty, config.DefaultVerbosity)
}

// LevelForVerbosity maps the CLI verbosity scale onto slog levels:
// 0 keeps only errors, 1 is normal operation, 2 and up enable debug
// output. Verbosity 3 additionally unlocks per-record result dumps in
// the batch driver, gated on Verbosity() rather than the level.
func LevelForVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Verbosity returns the verbosity the logger was built with.
func (l *Logger) Verbosity() int { return l.verbosity }

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.logger }

// With returns a new Logger with additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), verbosity: l.verbosity}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
