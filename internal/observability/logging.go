// Package observability carries build-scoped logging attributes through a
// context so stage code can log without threading a logger.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// LogContext holds the attributes attached to every context-aware log line.
type LogContext struct {
	BuildID string
	Stage   string
	Page    string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := GetContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := GetContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPage adds the output path of the page being processed.
func WithPage(ctx context.Context, page string) context.Context {
	lc := GetContext(ctx)
	lc.Page = page
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the log context stored in ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func attrs(ctx context.Context, extra []slog.Attr) []slog.Attr {
	lc := GetContext(ctx)
	out := make([]slog.Attr, 0, 3+len(extra))
	if lc.BuildID != "" {
		out = append(out, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		out = append(out, logfields.Stage(lc.Stage))
	}
	if lc.Page != "" {
		out = append(out, logfields.Page(lc.Page))
	}
	return append(out, extra...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, attrs(ctx, a)...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, attrs(ctx, a)...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, attrs(ctx, a)...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, a ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, attrs(ctx, a)...)
}
