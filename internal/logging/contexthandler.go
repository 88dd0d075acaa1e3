// Package logging wires slog so that attributes stored in a context travel
// onto every log record emitted under that context.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/myrjola/whodunit/internal/errors"
)

type contextKey struct{}

var attrsKey contextKey

// ContextHandler decorates a slog.Handler with the attributes carried by the
// record's context, see [WithAttrs].
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps h into a ContextHandler.
func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// NewLogger builds the standard logger of this project: a text handler on w
// wrapped in a ContextHandler.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	})
	return slog.New(NewContextHandler(handler))
}

// Handle enriches the record with the attributes stored in ctx before
// delegating to the wrapped handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs stores attrs in the context so that [ContextHandler] adds them to
// every record logged under it. Attributes accumulate across calls.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		attrs = append(existing[:len(existing):len(existing)], attrs...)
	}
	return context.WithValue(ctx, attrsKey, attrs)
}
