package mesh

import (
	"context"
	"log/slog"
)

const (
	PrintToggle            = false
	LevelTrace  slog.Level = slog.LevelInfo + 1
)

// Trace logs a structured event at the trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
