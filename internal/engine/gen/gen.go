// Package gen turns directory stanzas into the rules of one build context.
package gen

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

const (
	libraryExt    = ".lib"
	executableExt = ".exe"
)

// Rules generates every rule of ctx:
//   - a copy rule for each source file a stanza refers to,
//   - one archive per library and executable,
//   - the user rules,
//   - one install manifest per package.
func Rules(ctx domain.Context, project *domain.Project, packages map[string]domain.Package) ([]*domain.Rule, error) {
	g := &generator{
		ctx:      ctx,
		libs:     project.Libraries(),
		packages: packages,
		installs: make(map[string][]domain.Path),
	}

	for _, d := range project.Dirs {
		if err := g.dir(d); err != nil {
			return nil, err
		}
	}
	g.installRules()
	return g.rules, nil
}

// LibraryArchive returns the archive target of an internal library.
func LibraryArchive(ctx domain.Context, entry domain.LibraryEntry) domain.Path {
	return ctx.BuildDir.Join(entry.Dir.String(), entry.Stanza.Name+libraryExt)
}

type generator struct {
	ctx      domain.Context
	libs     domain.LibraryIndex
	packages map[string]domain.Package

	rules []*domain.Rule
	// installs collects the installed files of every package across directories.
	installs map[string][]domain.Path
}

type dirGen struct {
	*generator
	src    domain.Path
	build  domain.Path
	copied map[string]domain.Path
	// produced holds the build-relative names targeted by rules of this directory.
	produced map[string]bool
}

func (g *generator) dir(d *domain.DirStanzas) error {
	dg := &dirGen{
		generator: g,
		src:       d.Dir,
		build:     g.ctx.BuildDir.Join(d.Dir.String()),
		copied:    make(map[string]domain.Path),
		produced:  make(map[string]bool),
	}

	for _, lib := range d.Libraries {
		dg.produced[lib.Name+libraryExt] = true
	}
	for _, exe := range d.Executables {
		dg.produced[exe.Name+executableExt] = true
	}
	for _, r := range d.Rules {
		for _, t := range r.Targets {
			dg.produced[t] = true
		}
	}

	for _, lib := range d.Libraries {
		dg.archive(lib.Name+libraryExt, lib.Srcs, lib.Libraries, lib.Loc, false)
	}
	for _, exe := range d.Executables {
		dg.archive(exe.Name+executableExt, exe.Srcs, exe.Libraries, exe.Loc, true)
	}
	for _, r := range d.Rules {
		if err := dg.userRule(r); err != nil {
			return err
		}
	}
	for _, inst := range d.Installs {
		if err := dg.install(inst); err != nil {
			return err
		}
	}
	return nil
}

// input returns the build path of name, adding a copy rule when name is a
// source file rather than the target of a rule in this directory.
func (dg *dirGen) input(name string) domain.Path {
	target := dg.build.Join(name)
	if dg.produced[name] {
		return target
	}
	if _, ok := dg.copied[name]; !ok {
		src := dg.src.Join(name)
		dg.copied[name] = target
		dg.rules = append(dg.rules, &domain.Rule{
			Targets: []domain.Path{target},
			Deps:    []domain.Path{src},
			Action:  domain.Action{Kind: domain.ActionCopy, Target: target, Srcs: []domain.Path{src}},
		})
	}
	return target
}

func (dg *dirGen) archive(name string, srcs []string, libs []domain.LibDep, loc *domain.Loc, link bool) {
	target := dg.build.Join(name)

	inputs := make([]domain.Path, 0, len(srcs))
	for _, s := range srcs {
		inputs = append(inputs, dg.input(s))
	}

	deps := slices.Clone(inputs)
	for _, l := range libs {
		entry, ok := dg.libs[l.Name]
		if !ok {
			continue
		}
		archive := LibraryArchive(dg.ctx, entry)
		deps = append(deps, archive)
		if link {
			inputs = append(inputs, archive)
		}
	}

	dg.rules = append(dg.rules, &domain.Rule{
		Targets: []domain.Path{target},
		Deps:    deps,
		Action:  domain.Action{Kind: domain.ActionCat, Target: target, Srcs: inputs},
		LibDeps: domain.NewLibDeps(libs),
		Loc:     loc,
	})
}

func (dg *dirGen) userRule(r domain.RuleStanza) error {
	if len(r.Targets) == 0 {
		return dg.locErr(r.Loc, "rule has no targets")
	}

	targets := make([]domain.Path, len(r.Targets))
	for i, t := range r.Targets {
		targets[i] = dg.build.Join(t)
	}
	deps := make([]domain.Path, 0, len(r.Deps))
	for _, d := range r.Deps {
		deps = append(deps, dg.input(d))
	}

	action, extra, err := dg.action(r, targets)
	if err != nil {
		return err
	}
	deps = append(deps, extra...)

	rule := &domain.Rule{
		Targets: targets,
		Deps:    deps,
		Action:  action,
		LibDeps: domain.NewLibDeps(r.Libraries),
		Loc:     r.Loc,
	}
	if r.DepsFile != "" {
		rule.Dynamic = &domain.DynamicDeps{Source: dg.input(r.DepsFile), Parse: ParseDepsFile}
	}
	dg.rules = append(dg.rules, rule)
	return nil
}

func (dg *dirGen) action(r domain.RuleStanza, targets []domain.Path) (domain.Action, []domain.Path, error) {
	a := r.Action
	set := 0
	for _, ok := range []bool{len(a.Run) > 0, a.System != "", a.Write != nil, a.Copy != "", len(a.Cat) > 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return domain.Action{}, nil, dg.locErr(r.Loc, "rule action must set exactly one of run, system, write, copy or cat")
	}

	switch {
	case len(a.Run) > 0:
		return domain.Action{Kind: domain.ActionRun, Dir: dg.build, Prog: a.Run[0], Args: a.Run[1:]}, nil, nil
	case a.System != "":
		return domain.Action{Kind: domain.ActionSystem, Dir: dg.build, Command: a.System}, nil, nil
	}

	if len(targets) != 1 {
		return domain.Action{}, nil, dg.locErr(r.Loc, "write, copy and cat rules must have exactly one target")
	}
	switch {
	case a.Write != nil:
		return domain.Action{Kind: domain.ActionWrite, Target: targets[0], Contents: *a.Write}, nil, nil
	case a.Copy != "":
		src := dg.input(a.Copy)
		return domain.Action{Kind: domain.ActionCopy, Target: targets[0], Srcs: []domain.Path{src}}, []domain.Path{src}, nil
	default:
		srcs := make([]domain.Path, len(a.Cat))
		for i, s := range a.Cat {
			srcs[i] = dg.input(s)
		}
		return domain.Action{Kind: domain.ActionCat, Target: targets[0], Srcs: srcs}, srcs, nil
	}
}

func (dg *dirGen) install(inst domain.InstallStanza) error {
	if _, ok := dg.packages[inst.Package]; !ok {
		return dg.locErr(inst.Loc, "unknown package %q", inst.Package)
	}
	for _, f := range inst.Files {
		dg.installs[inst.Package] = append(dg.installs[inst.Package], dg.input(f))
	}
	return nil
}

// installRules writes one manifest per package listing its installed files.
func (g *generator) installRules() {
	for _, name := range slices.Sorted(maps.Keys(g.packages)) {
		pkg := g.packages[name]
		files := g.installs[name]

		var b strings.Builder
		fmt.Fprintf(&b, "%s: [\n", pkg.Name)
		for _, f := range files {
			fmt.Fprintf(&b, "  %q\n", f.SourceRel().String())
		}
		b.WriteString("]\n")

		target := pkg.InstallTarget(g.ctx)
		g.rules = append(g.rules, &domain.Rule{
			Targets: []domain.Path{target},
			Deps:    files,
			Action:  domain.Action{Kind: domain.ActionWrite, Target: target, Contents: b.String()},
		})
	}
}

func (g *generator) locErr(loc *domain.Loc, format string, args ...any) error {
	if loc == nil {
		return domain.Fatalf(format, args...)
	}
	return domain.NewLocError(*loc, format, args...)
}

// ParseDepsFile reads one path per line, relative to dir. Blank lines and
// lines starting with # are ignored.
func ParseDepsFile(dir domain.Path, contents []byte) ([]domain.Path, error) {
	var deps []domain.Path
	sc := bufio.NewScanner(bytes.NewReader(contents))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		deps = append(deps, dir.Join(line))
	}
	return deps, sc.Err()
}
