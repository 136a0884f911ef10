package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

type implLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a Logger writing to stdout in the given format ("json" or "console")
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(w io.Writer, level, format string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel // default to info
	}

	out := w
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	return &implLogger{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
		level:  lvl,
	}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop(), level: zerolog.Disabled}
}

// WithFields attaches key/value pairs to every line logged with the returned
// context, e.g. the run ID of a pipeline run.
func WithFields(ctx context.Context, fields map[string]string) context.Context {
	merged := make(map[string]string, len(fields))
	if prev, ok := ctx.Value(ctxKey{}).(map[string]string); ok {
		for k, v := range prev {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, ctxKey{}, merged)
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.level
}

func (l *implLogger) emit(ctx context.Context, level zerolog.Level, msg string, args []interface{}) {
	if !l.shouldLog(level) {
		return
	}
	ev := l.logger.WithLevel(level)
	if ctx != nil {
		if fields, ok := ctx.Value(ctxKey{}).(map[string]string); ok {
			for k, v := range fields {
				ev = ev.Str(k, v)
			}
		}
	}
	ev.Msgf(msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, zerolog.DebugLevel, msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, zerolog.InfoLevel, msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, zerolog.WarnLevel, msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.emit(ctx, zerolog.ErrorLevel, msg, args)
}
