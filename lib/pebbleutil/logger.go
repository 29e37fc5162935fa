package pebbleutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/pebble"
)

// NoopLogger does no logging.
type NoopLogger struct{}

// Infof implements pebble.Logger.
func (NoopLogger) Infof(format string, args ...interface{}) {}

// Errorf implements pebble.Logger.
func (NoopLogger) Errorf(format string, args ...interface{}) {}

// Fatalf implements pebble.Logger.
func (NoopLogger) Fatalf(format string, args ...interface{}) {
	os.Exit(1)
}

// SlogLogger forwards pebble's log lines to a slog.Logger.
type SlogLogger struct {
	L *slog.Logger
}

// NewLogger returns a pebble logger writing to l, or a NoopLogger if l is nil.
func NewLogger(l *slog.Logger) pebble.Logger {
	if l == nil {
		return NoopLogger{}
	}

	return SlogLogger{L: l.With("component", "pebble")}
}

// Infof implements pebble.Logger.
func (s SlogLogger) Infof(format string, args ...interface{}) {
	s.L.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Errorf implements pebble.Logger.
func (s SlogLogger) Errorf(format string, args ...interface{}) {
	s.L.Error(fmt.Sprintf(format, args...))
}

// Fatalf implements pebble.Logger.
func (s SlogLogger) Fatalf(format string, args ...interface{}) {
	s.L.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
