package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// ContextSpec is one entry of the workspace file.
type ContextSpec struct {
	Name   string
	Switch string
	Root   string
	// Default marks the entry that stands for the ambient toolchain.
	Default bool
	Loc     *Loc
}

// Context identifies one toolchain configuration. It is created once per
// invocation and never mutated.
type Context struct {
	Name     string
	BuildDir Path
	// Env is the opaque toolchain descriptor, as KEY=VALUE entries merged into
	// every action's environment.
	Env     []string
	Switch  string
	Root    string
	Profile string
}

// NewContext builds a Context rooted at _build/<name>.
func NewContext(name string, env []string) Context {
	return Context{
		Name:     name,
		BuildDir: ContextBuildDir(name),
		Env:      env,
		Profile:  "release",
	}
}

// IsDefault reports whether c is the default context.
func (c Context) IsDefault() bool {
	return c.Name == DefaultContextName
}

// ID returns a deterministic digest of the toolchain descriptor, used to key
// cached action results.
func (c Context) ID() string {
	env := slices.Clone(c.Env)
	slices.Sort(env)

	var builder strings.Builder
	builder.WriteString(c.Name)
	builder.WriteString(";")
	builder.WriteString(c.Profile)
	builder.WriteString(";")
	for _, kv := range env {
		builder.WriteString(kv)
		builder.WriteString(";")
	}

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}

// FindContext returns the context with the given name.
func FindContext(contexts []Context, name string) (Context, bool) {
	for _, c := range contexts {
		if c.Name == name {
			return c, true
		}
	}
	return Context{}, false
}
