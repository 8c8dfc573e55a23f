package domain

import (
	"path"
	"strings"
	"unique"
)

// Path is an interned, slash-separated path relative to the workspace root.
// Paths below BuildDirName are build targets; all others name source files.
type Path struct {
	h unique.Handle[string]
}

// NewPath cleans s and interns it.
func NewPath(s string) Path {
	return Path{h: unique.Make(path.Clean(strings.TrimPrefix(s, "./")))}
}

// NewPaths interns every element of s.
func NewPaths(s []string) []Path {
	res := make([]Path, len(s))
	for i, p := range s {
		res[i] = NewPath(p)
	}
	return res
}

// String returns the underlying path.
func (p Path) String() string {
	if p.IsZero() {
		return ""
	}
	return p.h.Value()
}

// IsZero reports whether p was never initialised.
func (p Path) IsZero() bool {
	return p == Path{}
}

// Join appends elems to p.
func (p Path) Join(elems ...string) Path {
	return NewPath(path.Join(append([]string{p.String()}, elems...)...))
}

// Dir returns the parent directory of p.
func (p Path) Dir() Path {
	return NewPath(path.Dir(p.String()))
}

// Base returns the last element of p.
func (p Path) Base() string {
	return path.Base(p.String())
}

// IsBuild reports whether p lives inside the build directory.
func (p Path) IsBuild() bool {
	s := p.String()
	return s == BuildDirName || strings.HasPrefix(s, BuildDirName+"/")
}

// ContextName returns the context segment of a build path ("default" for
// _build/default/foo) and false for source paths.
func (p Path) ContextName() (string, bool) {
	if !p.IsBuild() {
		return "", false
	}
	rest := strings.TrimPrefix(p.String(), BuildDirName+"/")
	if rest == "" || rest == BuildDirName {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	return name, true
}

// SourceRel strips the "_build/<context>/" prefix of a build path. Source
// paths are returned unchanged.
func (p Path) SourceRel() Path {
	name, ok := p.ContextName()
	if !ok {
		return p
	}
	rest := strings.TrimPrefix(p.String(), BuildDirName+"/"+name)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return NewPath(".")
	}
	return NewPath(rest)
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	*p = NewPath(string(text))
	return nil
}

// PathStrings converts paths back to plain strings.
func PathStrings(ps []Path) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
