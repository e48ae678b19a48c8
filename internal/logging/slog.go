package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// redactedKeys never reach the output with their real value.
var redactedKeys = map[string]struct{}{
	"password":   {},
	"token":      {},
	"secret_key": {},
}

const redactedValue = "[REDACTED]"

func redacted(key string) bool {
	_, ok := redactedKeys[strings.ToLower(key)]
	return ok
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// newSlogLogger builds the json or text backend. json is the default.
func newSlogLogger(format string, level slog.Level, w io.Writer) (*SlogLogger, error) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactAttr}

	var h slog.Handler
	switch format {
	case "", FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return NewSlogLogger(slog.New(h)), nil
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if redacted(a.Key) {
		a.Value = slog.StringValue(redactedValue)
	}
	return a
}

// parseLevel accepts debug, info, warn and error in any case. Empty means info.
func parseLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
