package rules

import (
	"os"

	"go.trai.ch/kiln/internal/core/domain"
)

// LibDeps collects the library dependencies declared by every rule reachable
// from each target, without running any action. Dynamic dependency files are
// read only if they already exist on disk.
func (i *Index) LibDeps(root string, targets []domain.Path) (map[domain.Path]domain.LibDeps, error) {
	res := make(map[domain.Path]domain.LibDeps, len(targets))
	for _, t := range targets {
		acc := domain.NewLibDeps(nil)
		seen := make(map[domain.Path]bool)
		if err := i.collect(root, t, acc, seen); err != nil {
			return nil, err
		}
		res[t] = acc
	}
	return res, nil
}

func (i *Index) collect(root string, target domain.Path, acc domain.LibDeps, seen map[domain.Path]bool) error {
	rule, ok := i.Rule(target)
	if !ok {
		if target.IsBuild() {
			return domain.NewBuildError(target, &domain.NoRuleError{Target: target})
		}
		return nil
	}
	if seen[rule.ID()] {
		return nil
	}
	seen[rule.ID()] = true

	acc.Merge(rule.LibDeps)

	deps := rule.Deps
	if dd := rule.Dynamic; dd != nil {
		deps = append(deps[:len(deps):len(deps)], dd.Source)
		if data, err := os.ReadFile(joinRoot(root, dd.Source)); err == nil {
			if more, err := dd.Parse(dd.Source.Dir(), data); err == nil {
				deps = append(deps, more...)
			}
		}
	}

	for _, d := range deps {
		if err := i.collect(root, d, acc, seen); err != nil {
			return domain.NewBuildError(rule.ID(), err)
		}
	}
	return nil
}
