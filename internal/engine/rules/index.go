// Package rules implements the per-context rule graph: the memoized mapping
// from target paths to the actions producing them.
package rules

import (
	"maps"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
)

// Index is the validated rule set of one context.
type Index struct {
	ctx      domain.Context
	rules    []*domain.Rule
	byTarget map[domain.Path]*domain.Rule
}

// NewIndex indexes rules by target. Two rules claiming the same target fail
// validation whether or not the target is ever requested.
func NewIndex(ctx domain.Context, rules []*domain.Rule) (*Index, error) {
	idx := &Index{
		ctx:      ctx,
		rules:    rules,
		byTarget: make(map[domain.Path]*domain.Rule, len(rules)),
	}

	for _, r := range rules {
		if len(r.Targets) == 0 {
			return nil, domain.NewCodeError("rule without targets", "context", ctx.Name, "action", r.Action.Describe())
		}
		for _, t := range r.Targets {
			if prev, ok := idx.byTarget[t]; ok {
				return nil, &domain.DuplicateRuleError{Target: t, Locs: []*domain.Loc{prev.Loc, r.Loc}}
			}
			idx.byTarget[t] = r
		}
	}

	return idx, nil
}

// Context returns the context the rules were generated for.
func (i *Index) Context() domain.Context {
	return i.ctx
}

// Rule returns the rule producing target.
func (i *Index) Rule(target domain.Path) (*domain.Rule, bool) {
	r, ok := i.byTarget[target]
	return r, ok
}

// Targets returns every producible target, sorted.
func (i *Index) Targets() []domain.Path {
	return slices.SortedFunc(maps.Keys(i.byTarget), comparePaths)
}

// Len returns the number of rules.
func (i *Index) Len() int {
	return len(i.rules)
}
