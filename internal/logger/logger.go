// Package logger provides a slog wrapper that writes to a rotating
// log file. The TUI owns the terminal, so nothing may log to stderr
// while the program is running.
package logger

import (
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu sync.Mutex

	// Logger is the global logger instance. Until Init is called it
	// discards everything, which keeps tests and early startup quiet.
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	rotator *lumberjack.Logger
)

// Init points the global logger at a rotating file.
func Init(path string, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(rotator, &slog.HandlerOptions{Level: level}))
}

// Close flushes and closes the underlying log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
