package utils

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

type Logger struct {
	*slog.Logger
}

// NewLogger creates a logger writing text to stderr. If logFile is non-empty
// the same records are also appended there as JSON; if the file cannot be
// opened the logger falls back to stderr only.
func NewLogger(level slog.Level, logFile string) *Logger {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	if logFile == "" {
		return &Logger{Logger: slog.New(stderrHandler)}
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger := slog.New(stderrHandler)
		logger.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return &Logger{Logger: logger}
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	return &Logger{
		Logger: slog.New(slogmulti.Fanout(stderrHandler, fileHandler)),
	}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}
