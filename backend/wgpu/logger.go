//go:build !nogpu

package wgpu

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() { setLogger(nil) }

// slogger returns the package logger.
func slogger() *slog.Logger { return logger.Load() }

// setLogger replaces the package logger; nil discards output.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}
