package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const maxLogSize = 2 * 1024 * 1024 // 2MB

type RotatingWriter struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	size    int64
	maxSize int64
}

// Setup configures the default slog logger at the given level. Output goes to
// stderr and, when logPath is non-empty, to a size-capped file. The returned
// writer is nil when no file is used.
func Setup(logPath, level string) (*slog.Logger, *RotatingWriter, error) {
	var out io.Writer = os.Stderr
	var rw *RotatingWriter

	if logPath != "" {
		w, err := OpenRotating(logPath, maxLogSize)
		if err != nil {
			logger := newLogger(out, level)
			return logger, nil, err
		}
		rw = w
		out = io.MultiWriter(os.Stderr, rw)
	}

	return newLogger(out, level), rw, nil
}

func newLogger(out io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel accepts debug, info, warn and error (case-insensitive), defaulting to info.
func ParseLevel(level string) slog.Level {
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

// OpenRotating opens logPath for appending. A file already over maxSize is
// emptied first.
func OpenRotating(logPath string, maxSize int64) (*RotatingWriter, error) {
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxSize {
		if err := os.Truncate(logPath, 0); err != nil {
			fmt.Fprintf(os.Stderr, "logging: truncate %s: %v\n", logPath, err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	return &RotatingWriter{
		file:    f,
		path:    logPath,
		size:    size,
		maxSize: maxSize,
	}, nil
}

// Write appends p and rotates once the file passes maxSize.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	w.size += int64(n)
	if w.size > w.maxSize {
		if rerr := w.rotate(); rerr != nil {
			fmt.Fprintf(os.Stderr, "logging: rotate %s: %v\n", w.path, rerr)
		}
	}
	return n, err
}

// rotate moves the current file to path.1, replacing the previous backup.
// When the rename fails the current file is reopened and kept growing.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	renameErr := os.Rename(w.path, w.path+".1")
	if renameErr != nil {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(w.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("reopen: %w", err)
	}
	w.file = f
	if renameErr != nil {
		return fmt.Errorf("rename: %w", renameErr)
	}
	w.size = 0
	return nil
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
