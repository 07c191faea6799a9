package extensions

import (
	"context"
	"log/slog"
	"time"

	lazy "github.com/lazy-fn/lazy-go"
)

// LoggingExtension logs attribute operations through a slog.Handler:
// computes and writes with durations, expirations, cache events, and
// errors. Instance-level cache hits are never logged (they never reach
// the extension layer).
type LoggingExtension struct {
	lazy.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a logging extension.
// logHandler: any slog.Handler (use NewSilentHandler for tests).
func NewLoggingExtension(logHandler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: lazy.NewBaseExtension("logging"),
		logger:        slog.New(logHandler),
	}
}

func (e *LoggingExtension) Wrap(next func() (any, error), op *lazy.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	if err != nil {
		e.logger.Error("attribute operation failed",
			"op", string(op.Kind),
			"schema", op.Schema.Name(),
			"attr", op.Attr,
			"duration", duration,
			"error", err,
		)
		return result, err
	}
	e.logger.Debug("attribute operation",
		"op", string(op.Kind),
		"schema", op.Schema.Name(),
		"attr", op.Attr,
		"duration", duration,
	)
	return result, err
}

func (e *LoggingExtension) OnExpire(op *lazy.Operation) {
	e.logger.Debug("slot expired",
		"schema", op.Schema.Name(),
		"attr", op.Attr,
	)
}

func (e *LoggingExtension) OnCacheEvent(kind lazy.CacheEventKind, op *lazy.Operation) {
	e.logger.Debug("fingerprint cache event",
		"kind", string(kind),
		"schema", op.Schema.Name(),
		"attr", op.Attr,
	)
}

// SilentHandler is a slog.Handler that discards all log output.
// Useful for testing when you don't want log output.
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler.
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}
