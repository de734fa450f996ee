// Package rtlog sets up the runtime's structured logger. Every component
// that needs to report a runtime condition logs through a *slog.Logger
// obtained from here, with the same start/outcome field style an RPC
// logging interceptor would use for unary calls.
package rtlog

import (
	"log/slog"
	"os"
	"strings"
)

// New builds the runtime's default logger. level accepts the usual slog
// level names ("debug", "info", "warn", "error"); anything else falls back
// to info.
func New(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Conn returns the slog attribute used to correlate every log line
// about one accepted connection or outbound client request.
func Conn(id string) slog.Attr {
	return slog.String("conn_id", id)
}
