// Package logging holds the *slog.Logger shared by every engine package.
// By default nothing is logged; hosts opt in with SetLogger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards everything; Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for all engine packages. Nil restores silence.
// Safe for concurrent use; texture loads log from their own goroutines.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger { return loggerPtr.Load() }
