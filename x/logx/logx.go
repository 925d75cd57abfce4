// Package logx holds the structured logger used across the HAL.
//
// Logging is off by default: the logger discards every record until platform
// or host code installs one with Set (a UART writer on the MCU, stderr in host
// tools and tests).
package logx

import (
	"io"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

var current atomic.Pointer[slog.Logger]

func init() { current.Store(Discard()) }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Set installs l as the HAL logger. A nil l restores the discard logger.
func Set(l *slog.Logger) {
	if l == nil {
		l = Discard()
	}
	current.Store(l)
}

// L returns the HAL logger.
func L() *slog.Logger { return current.Load() }
