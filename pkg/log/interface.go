// Package log provides the structured logging interface used by qsarstats.
//
// The interface mirrors log/slog so any backend can sit behind it. Two
// backends ship with the package: the slog JSON setup in SetupLogger and a
// zerolog-backed Logger from NewZerologLogger, which the CLI uses.
//
// Example usage:
//
//	logger := log.NewZerologLogger(os.Stderr, log.LevelInfo).With(
//	    log.ModelKeyKey, key.String(),
//	)
//	logger.Info("computed margins of exposure",
//	    log.PercentileKey, "95th",
//	    log.SamplesKey, 812,
//	)
package log

import (
	"context"
)

// Logger is a structured logger compatible with log/slog's calling
// convention: a message followed by alternating key/value fields.
type Logger interface {
	// Debug logs diagnostic detail, usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs normal operational events.
	Info(msg string, fields ...any)

	// Warn logs conditions that deserve attention but do not stop the work.
	Warn(msg string, fields ...any)

	// Error logs failures. An error value may be passed as a field; backends
	// that understand cockroachdb/errors attach its stack trace.
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with the same numeric values as slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Enabled(context.Context, Level) bool { return false }
