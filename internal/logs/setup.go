package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv selects the log level when --verbose is not given
const LevelEnv = "ALCHEMIST_LOG"

// Setup installs the default slog logger. Records go to w as text; the level
// is Warn unless verbose is set or ALCHEMIST_LOG asks for something else.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	level := ParseLevel(os.Getenv(LevelEnv))
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog level, defaulting to Warn
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
