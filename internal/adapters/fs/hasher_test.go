package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

// The golden digests pin the cache key format. If they change, every
// existing action cache is invalidated.
const (
	goldenFileDigest  = "92ee87ac4e0a0b35"
	goldenRunDigest   = "8d8284a73cfcfeab"
	goldenWriteDigest = "7cd4b6560cda4362"
)

func TestHasher_FileDigest_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dummy.txt")
	//nolint:gosec // 0600 is fine for test
	require.NoError(t, os.WriteFile(path, []byte("start-content"), 0o600))

	got, err := fs.NewHasher().FileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, goldenFileDigest, got)
}

func TestHasher_FileDigest_Missing(t *testing.T) {
	_, err := fs.NewHasher().FileDigest(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to open file")
}

func TestHasher_ActionDigest_Golden(t *testing.T) {
	h := fs.NewHasher()

	run := domain.Action{
		Kind: domain.ActionRun,
		Dir:  domain.NewPath("_build/default/src"),
		Prog: "cc",
		Args: []string{"-o", "app"},
	}
	assert.Equal(t, goldenRunDigest, h.ActionDigest(run, []string{"B=2", "A=1"}, []string{"src/a.c:0123"}))

	write := domain.Action{
		Kind:     domain.ActionWrite,
		Target:   domain.NewPath("_build/default/x"),
		Contents: "hello",
	}
	assert.Equal(t, goldenWriteDigest, h.ActionDigest(write, nil, nil))
}

func TestHasher_ActionDigest_Sensitivity(t *testing.T) {
	h := fs.NewHasher()
	base := domain.Action{Kind: domain.ActionSystem, Command: "make", Dir: domain.NewPath("_build/default")}
	ref := h.ActionDigest(base, []string{"A=1"}, []string{"a:1", "b:2"})

	t.Run("env order is irrelevant", func(t *testing.T) {
		other := h.ActionDigest(base, []string{"A=1"}, []string{"a:1", "b:2"})
		assert.Equal(t, ref, other)
		assert.Equal(t,
			h.ActionDigest(base, []string{"A=1", "B=2"}, nil),
			h.ActionDigest(base, []string{"B=2", "A=1"}, nil))
	})

	t.Run("dep order matters", func(t *testing.T) {
		assert.NotEqual(t, ref, h.ActionDigest(base, []string{"A=1"}, []string{"b:2", "a:1"}))
	})

	t.Run("dep digest matters", func(t *testing.T) {
		assert.NotEqual(t, ref, h.ActionDigest(base, []string{"A=1"}, []string{"a:1", "b:3"}))
	})

	t.Run("env matters", func(t *testing.T) {
		assert.NotEqual(t, ref, h.ActionDigest(base, []string{"A=2"}, []string{"a:1", "b:2"}))
	})

	t.Run("command matters", func(t *testing.T) {
		changed := base
		changed.Command = "make all"
		assert.NotEqual(t, ref, h.ActionDigest(changed, []string{"A=1"}, []string{"a:1", "b:2"}))
	})

	t.Run("field boundaries", func(t *testing.T) {
		a := domain.Action{Kind: domain.ActionRun, Prog: "ab", Args: []string{"c"}}
		b := domain.Action{Kind: domain.ActionRun, Prog: "a", Args: []string{"bc"}}
		assert.NotEqual(t, h.ActionDigest(a, nil, nil), h.ActionDigest(b, nil, nil))
	})
}
