package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// ZerologLogger implements Logger on top of rs/zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger writing JSON lines to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// Zerolog exposes the underlying zerolog.Logger.
func (z *ZerologLogger) Zerolog() zerolog.Logger {
	return z.zl
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any) { z.emit(z.zl.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any) { z.emit(z.zl.Warn(), msg, fields) }
func (z *ZerologLogger) Error(msg string, fields ...any) { z.emit(z.zl.Error(), msg, fields) }

// With returns a child logger carrying fields.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fieldValue(fields[i+1]))
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled reports whether level passes the logger's threshold.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

// InstallWarnings routes errors.Warn through this logger at warn level.
// Warnings implementing zerolog.LogObjectMarshaler are embedded as objects.
func (z *ZerologLogger) InstallWarnings() {
	errors.SetZerologWarnFunc(func(w error) {
		ev := z.zl.Warn()
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(obj)
		}
		ev.Msg(w.Error())
	})
}

func (z *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
			if obj, ok := v.(zerolog.LogObjectMarshaler); ok {
				ev = ev.EmbedObject(obj)
			} else {
				var (
					paramErr *errors.InvalidParameterError
					dimErr   *errors.InvalidDimensionError
					groupErr *errors.InconsistentGroupingError
				)
				switch {
				case errors.As(v, &paramErr):
					ev = ev.EmbedObject(paramErr)
				case errors.As(v, &dimErr):
					ev = ev.EmbedObject(dimErr)
				case errors.As(v, &groupErr):
					ev = ev.EmbedObject(groupErr)
				}
			}
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func fieldValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
