package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.EnvLevel, "")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Golden(t *testing.T) {
	chain := zerr.With(
		zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
		"target", "_build/default/app.exe",
	)

	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{
			name:       "info",
			log:        func(l *logger.Logger) { l.Info("some message") },
			goldenName: "info_basic",
		},
		{
			name:       "warn",
			log:        func(l *logger.Logger) { l.Warn("toolchain directory missing") },
			goldenName: "warn_basic",
		},
		{
			name:       "error chain",
			log:        func(l *logger.Logger) { l.Error(chain) },
			goldenName: "error_chain",
		},
		{
			name:       "multiline error",
			log:        func(l *logger.Logger) { l.Error(zerr.New("line1\nline2")) },
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.New("copy failed"), "file", "src/a.c"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "copy failed", record["msg"])
	assert.Equal(t, "src/a.c", record["file"])

	buf.Reset()
	lg.Warn("careful")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "careful", record["msg"])
}

func TestLogger_JSONPreservesOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.SetJSON(false)

	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_LevelFromEnvironment(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.EnvLevel, "warn")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)

	lg.Info("hidden")
	lg.Warn("shown")
	assert.Equal(t, "! shown\n", buf.String())

	lg.SetLevel(slog.LevelInfo)
	lg.Info("now visible")
	assert.Contains(t, buf.String(), "now visible\n")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLogger_SetOutputNil(t *testing.T) {
	lg, _ := newTestLogger(t)
	assert.NotPanics(t, func() { lg.SetOutput(nil) })
}
