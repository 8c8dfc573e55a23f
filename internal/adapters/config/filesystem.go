package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts filesystem operations for testability.
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WalkDir walks the tree rooted at root in lexical order.
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is validated by caller
	return os.ReadFile(path)
}

// WalkDir walks the tree rooted at root.
func (o *OSFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// MapFSAdapter adapts fstest.MapFS to FileSystem interface for testing.
type MapFSAdapter struct {
	FS   fs.FS
	Root string // simulated root path
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:   fsys,
		Root: root,
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(m.FS, m.toRelPath(path))
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(m.FS, m.toRelPath(path))
}

// WalkDir walks the simulated tree, reporting absolute paths below Root.
func (m *MapFSAdapter) WalkDir(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(m.FS, m.toRelPath(root), func(path string, d fs.DirEntry, err error) error {
		return fn(filepath.Join(m.Root, filepath.FromSlash(path)), d, err)
	})
}

// toRelPath converts an absolute path to a slash-separated path within the
// filesystem. Paths outside the root are returned unchanged, which makes
// downstream fs operations fail with "file not found".
func (m *MapFSAdapter) toRelPath(absPath string) string {
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}
	if absPath == m.Root {
		return "."
	}
	if m.Root != "/" && !strings.HasPrefix(absPath, m.Root+string(filepath.Separator)) {
		return absPath
	}

	rel := strings.TrimPrefix(absPath, m.Root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	return filepath.ToSlash(rel)
}
