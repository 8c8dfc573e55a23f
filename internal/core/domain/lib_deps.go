package domain

import (
	"maps"
	"slices"
)

// LibDepKind tells whether a library dependency must be present.
type LibDepKind int

const (
	// Required dependencies must resolve.
	Required LibDepKind = iota
	// Optional dependencies are used when available.
	Optional
)

func (k LibDepKind) String() string {
	if k == Optional {
		return "optional"
	}
	return "required"
}

// LibDep is a single named library dependency.
type LibDep struct {
	Name string
	Kind LibDepKind
}

// LibDeps maps library names to their dependency kind.
type LibDeps map[string]LibDepKind

// NewLibDeps builds a LibDeps from a list, merging duplicates.
func NewLibDeps(deps []LibDep) LibDeps {
	out := make(LibDeps, len(deps))
	for _, d := range deps {
		out.Add(d.Name, d.Kind)
	}
	return out
}

// Add records name with kind. Required wins over Optional.
func (l LibDeps) Add(name string, kind LibDepKind) {
	if prev, ok := l[name]; ok && prev == Required {
		return
	}
	l[name] = kind
}

// Merge adds every entry of other into l.
func (l LibDeps) Merge(other LibDeps) {
	for name, kind := range other {
		l.Add(name, kind)
	}
}

// Names returns the sorted library names.
func (l LibDeps) Names() []string {
	return slices.Sorted(maps.Keys(l))
}
