// Package fs provides the content hasher used by the action cache.
package fs

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests of files and actions.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// FileDigest computes the XXHash of a file's content.
func (h *Hasher) FileDigest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return format(hasher), nil
}

// ActionDigest computes a single hash representing the action, the context
// environment and the digests of the action's inputs.
func (h *Hasher) ActionDigest(action domain.Action, env, deps []string) string {
	hasher := xxhash.New()

	h.hashAction(action, hasher)
	h.hashEnvironment(env, hasher)

	for _, dep := range deps {
		writeField(hasher, dep)
	}
	section(hasher)

	return format(hasher)
}

// hashAction hashes every field of the action.
func (h *Hasher) hashAction(action domain.Action, hasher *xxhash.Digest) {
	writeField(hasher, action.Kind.String())
	writeField(hasher, action.Dir.String())
	writeField(hasher, action.Prog)

	for _, arg := range action.Args {
		writeField(hasher, arg)
	}
	section(hasher)

	writeField(hasher, action.Command)
	writeField(hasher, action.StdoutTo.String())
	writeField(hasher, action.Target.String())

	for _, src := range action.Srcs {
		writeField(hasher, src.String())
	}
	section(hasher)

	writeField(hasher, action.Contents)
}

// hashEnvironment hashes environment entries in a deterministic order.
func (h *Hasher) hashEnvironment(env []string, hasher *xxhash.Digest) {
	sorted := slices.Clone(env)
	slices.Sort(sorted)

	for _, kv := range sorted {
		writeField(hasher, kv)
	}
	section(hasher)
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0})
}

func section(hasher *xxhash.Digest) {
	_, _ = hasher.Write([]byte{0})
}

func format(hasher *xxhash.Digest) string {
	return fmt.Sprintf("%016x", hasher.Sum64())
}
