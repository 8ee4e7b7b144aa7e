// Package logging configures the process-wide slog logger with file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup directs slog output to a rotating app.log under dir and to stderr.
// It returns a closer for the log file.
func Setup(dir string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "app.log"),
		MaxSize:    1, // megabytes
		MaxBackups: 5,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, rotator), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return rotator, nil
}
