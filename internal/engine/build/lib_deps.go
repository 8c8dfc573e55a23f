package build

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// AllLibDeps returns, for each target of the named context, the external
// libraries required to build it. Internal libraries are replaced by their
// own dependencies, transitively, and never appear in the result. No action
// is run.
func (e *Engine) AllLibDeps(contextName string, targets []domain.Path) (map[domain.Path]domain.LibDeps, error) {
	idx, ok := e.indexes[contextName]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownContext, contextName), "context", contextName)
	}

	raw, err := idx.LibDeps(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := make(map[domain.Path]domain.LibDeps, len(raw))
	for t, deps := range raw {
		res[t] = e.external(deps)
	}
	return res, nil
}

// external expands internal libraries in deps. A dependency reached through
// an optional internal library is itself optional.
func (e *Engine) external(deps domain.LibDeps) domain.LibDeps {
	out := domain.NewLibDeps(nil)
	seen := make(map[string]domain.LibDepKind)

	var visit func(name string, kind domain.LibDepKind)
	visit = func(name string, kind domain.LibDepKind) {
		entry, internal := e.libraries[name]
		if !internal {
			out.Add(name, kind)
			return
		}
		if prev, ok := seen[name]; ok && (prev == domain.Required || prev == kind) {
			return
		}
		seen[name] = kind
		for _, d := range entry.Stanza.Libraries {
			k := d.Kind
			if kind == domain.Optional {
				k = domain.Optional
			}
			visit(d.Name, k)
		}
	}

	for _, name := range deps.Names() {
		visit(name, deps[name])
	}
	return out
}
