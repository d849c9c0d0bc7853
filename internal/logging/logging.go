// README: slog construction shared by the server and client binaries.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a text-handler logger at the named level. Unknown levels fall
// back to info.
func New(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
