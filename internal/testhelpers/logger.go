// Package testhelpers holds small utilities shared by tests.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/whodunit/internal/logging"
)

// NewLogger creates a debug-level logger writing to the given sink, usually
// io.Discard or a buffer the test asserts on.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}
