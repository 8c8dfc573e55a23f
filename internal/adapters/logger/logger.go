// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
	"go.trai.ch/zerr"
)

// EnvLevel names the environment variable holding the minimum level:
// debug, info, warn or error.
const EnvLevel = "KILN_LOG_LEVEL"

// messager describes an error that can report its own message without the chain.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	level    slog.Level
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr. The level is
// read from KILN_LOG_LEVEL and defaults to info.
func New() ports.Logger {
	level, ok := ParseLevel(os.Getenv(EnvLevel))
	if !ok {
		level = slog.LevelInfo
	}
	l := &Logger{level: level, output: os.Stderr}
	l.rebuild()
	return l
}

// ParseLevel parses a level name. Empty or unknown names report false.
func ParseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if s == "" {
		return level, false
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, false
	}
	return level, true
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level slog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
	l.rebuild()
}

// rebuild recreates the handler. Callers hold mu, except New.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}
	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(l.output, opts)
	} else {
		handler = NewPrettyHandler(l.output, opts)
	}
	l.logger = slog.New(handler)
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

// Error logs an error. Pretty mode prints the cause chain, JSON mode emits
// the chain's metadata as structured fields.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		zerr.Log(context.Background(), l.logger, err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// errorEntry is one layer of an error chain.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain. zerr layers contribute their own
// message and metadata. The first foreign error ends the walk with its full
// text. Layers with an empty message and no metadata are skipped.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{Message: current.Error()})
			break
		}

		entry := errorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		if entry.Message != "" || len(entry.Metadata) > 0 {
			entries = append(entries, entry)
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries lays out the chain: the first entry on the "Error:"
// line, the rest under "Caused by:".
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message+formatMetadata(entry.Metadata), "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    "+style.Arrow+" "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}

func formatMetadata(md map[string]any) string {
	if len(md) == 0 {
		return ""
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, md[k])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
