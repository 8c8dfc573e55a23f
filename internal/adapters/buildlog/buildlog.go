// Package buildlog writes the per-invocation command log, _build/log.
package buildlog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildLog = (*Log)(nil)

// Log implements ports.BuildLog. It is safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// Open truncates <root>/_build/log and writes the header line recording the
// invocation's arguments. The header reaches the file before Open returns.
func Open(root string, args []string) (*Log, error) {
	path := filepath.Join(root, domain.DefaultLogPath())
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", path)
	}

	//nolint:gosec // Path is constructed from the workspace root
	f, err := os.Create(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLogCreateFailed.Error()), "path", path)
	}

	l := &Log{file: f, w: bufio.NewWriter(f)}
	header := "# kiln"
	if len(args) > 0 {
		header += " " + strings.Join(quoteAll(args), " ")
	}
	_, _ = l.w.WriteString(header + "\n")
	if err := l.w.Flush(); err != nil {
		_ = f.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLogCreateFailed.Error()), "path", path)
	}
	return l, nil
}

// Command records a command line executed from dir, relative to the root.
func (l *Log) Command(dir string, argv []string) {
	line := strings.Join(quoteAll(argv), " ")
	if dir != "" && dir != "." {
		line = "(cd " + quote(dir) + " && " + line + ")"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return
	}
	_, _ = l.w.WriteString("$ " + line + "\n")
	_ = l.w.Flush()
}

// Close flushes and closes the file. Later calls are no-ops.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}

	err := l.w.Flush()
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.w = nil
	l.file = nil
	if err != nil {
		return zerr.Wrap(err, "failed to close build log")
	}
	return nil
}

func quoteAll(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quote(a)
	}
	return out
}

// quote renders s as a POSIX shell word.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:,+@%", r)
}
