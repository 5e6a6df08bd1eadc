package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
)

type LoggerAdapter struct {
	log *slog.Logger
}

// NewLoggerAdapter logs JSON in production and human readable text with
// debug level everywhere else.
func NewLoggerAdapter(env string) *LoggerAdapter {
	return newLoggerAdapter(os.Stdout, env)
}

func newLoggerAdapter(w io.Writer, env string) *LoggerAdapter {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &LoggerAdapter{log: slog.New(handler)}
}

// NewNop discards everything.
func NewNop() *LoggerAdapter {
	return &LoggerAdapter{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, attrs(fields)...)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log.Error(msg, attrs(fields)...)
}

func (l *LoggerAdapter) With(fields map[string]interface{}) ports.LoggerPort {
	return &LoggerAdapter{log: l.log.With(attrs(fields)...)}
}

func attrs(fields map[string]interface{}) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
