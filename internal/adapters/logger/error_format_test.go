package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	sentinel := zerr.New("sentinel")

	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "single standard error",
			err:  errors.New("simple error"),
			want: []logger.ErrorEntry{{Message: "simple error"}},
		},
		{
			name: "zerr wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			want: []logger.ErrorEntry{
				{Message: "outer layer", Metadata: map[string]any{}},
				{Message: "middle layer", Metadata: map[string]any{}},
				{Message: "root cause"},
			},
		},
		{
			name: "empty layers are skipped",
			err:  zerr.Wrap(sentinel, ""),
			want: []logger.ErrorEntry{{Message: "sentinel", Metadata: map[string]any{}}},
		},
		{
			name: "metadata without message is kept",
			err:  zerr.With(zerr.Wrap(sentinel, ""), "package", "kiln"),
			want: []logger.ErrorEntry{
				{Message: "", Metadata: map[string]any{"package": "kiln"}},
				{Message: "sentinel", Metadata: map[string]any{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "boom"}},
			want:    "Error: boom",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{
				{Message: "boom", Metadata: map[string]any{"b": 2, "a": "x"}},
			},
			want: "Error: boom (a=x, b=2)",
		},
		{
			name: "causes",
			entries: []logger.ErrorEntry{
				{Message: "outer"},
				{Message: "inner\ndetail"},
			},
			want: "Error: outer\n\n  Caused by:\n    → inner\n      detail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
