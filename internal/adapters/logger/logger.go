// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	mu     sync.RWMutex
}

// New creates a Logger writing human-readable text to stderr.
func New() *Logger {
	l := &Logger{level: new(slog.LevelVar)}
	l.logger = slog.New(l.handler(os.Stderr))
	return l
}

func (l *Logger) handler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level})
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(l.handler(w))
}

// SetVerbose lowers the threshold to debug.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// Debug logs a message only shown in verbose mode.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with the metadata attached anywhere in its chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", append([]any{"error", err.Error()}, metadataAttrs(err)...)...)
}

// metadataAttrs flattens zerr metadata, outermost value winning per key.
func metadataAttrs(err error) []any {
	meta := make(map[string]any)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var z *zerr.Error
		if !errors.As(e, &z) {
			break
		}
		for k, v := range z.Metadata() {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
		e = z
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, meta[k]))
	}
	return attrs
}
