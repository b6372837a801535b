// Package logging provides the structured-logging conventions used across
// vaultstore.
//
// Design principles:
//   - Logging is dependency-injected, never global
//   - Each component owns its own scoped logger, attached once at
//     construction time with slog.With()
//   - If no logger is provided, a discard logger is used so the core never
//     has a nil-logger branch to special-case
//
// vaultstore is an embedded library, not a server: output format, level,
// and destination are entirely the embedding application's concern. This
// package never calls slog.SetDefault.
//
// Logging is intentionally sparse: lifecycle boundaries (repository open/
// commit/clean) are the intended log points, never per-chunk or per-byte
// hot paths.
package logging

import (
	"context"
	"log/slog"
)

// discardHandler is a handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
// Use this as a default when no logger is provided.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns the provided logger if non-nil, otherwise a discard
// logger. This is the standard pattern for optional logger parameters:
//
//	func NewComponent(logger *slog.Logger) *Component {
//	    logger = logging.Default(logger)
//	    return &Component{logger: logger.With("component", "name")}
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
