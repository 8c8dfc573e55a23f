package rules

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// run executes a rule's action unless every target is up to date with the
// recorded build info, then records the new info.
func (g *Graph) run(ctx context.Context, rule *domain.Rule, inputs []string) (map[domain.Path]domain.Artifact, error) {
	inputHash := g.deps.Hasher.ActionDigest(rule.Action, g.idx.ctx.Env, inputs)

	if !g.opts.NoCache {
		if arts, ok := g.cached(rule, inputHash); ok {
			if g.deps.Metrics != nil {
				g.deps.Metrics.ActionCached(g.idx.ctx.Name)
			}
			return arts, nil
		}
	}

	if err := g.prepareTargets(rule); err != nil {
		return nil, err
	}
	if err := g.execute(ctx, rule.Action); err != nil {
		return nil, err
	}
	return g.commit(rule, inputHash)
}

func (g *Graph) cached(rule *domain.Rule, inputHash string) (map[domain.Path]domain.Artifact, bool) {
	ctxID := g.idx.ctx.ID()
	arts := make(map[domain.Path]domain.Artifact, len(rule.Targets))
	for _, t := range rule.Targets {
		info, err := g.deps.Store.Get(g.deps.Root, ctxID, t.String())
		if err != nil {
			g.warn(err)
			return nil, false
		}
		if info == nil || info.InputHash != inputHash {
			return nil, false
		}
		digest, err := g.deps.Hasher.FileDigest(g.abs(t))
		if err != nil || digest != info.OutputHash {
			return nil, false
		}
		arts[t] = domain.Artifact{Path: t, Digest: digest, Cached: true}
	}
	return arts, true
}

// prepareTargets removes stale targets and creates their directories.
func (g *Graph) prepareTargets(rule *domain.Rule) error {
	for _, t := range rule.Targets {
		abs := g.abs(t)
		if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove stale target"), "target", t.String())
		}
		if err := os.MkdirAll(filepath.Dir(abs), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create target directory"), "target", t.String())
		}
	}
	return nil
}

func (g *Graph) execute(ctx context.Context, a domain.Action) error {
	switch a.Kind {
	case domain.ActionRun, domain.ActionSystem:
		return g.spawn(ctx, a)
	case domain.ActionWrite:
		if err := os.WriteFile(g.abs(a.Target), []byte(a.Contents), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrActionFailed.Error()), "action", a.Describe())
		}
		return nil
	case domain.ActionCopy, domain.ActionCat:
		if err := g.concat(a.Target, a.Srcs); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrActionFailed.Error()), "action", a.Describe())
		}
		return nil
	default:
		return domain.NewCodeError("unknown action kind", "kind", int(a.Kind))
	}
}

func (g *Graph) spawn(ctx context.Context, a domain.Action) error {
	argv := a.Argv()
	if g.deps.Log != nil {
		g.deps.Log.Command(a.Dir.String(), argv)
	}

	stdout := g.opts.Stdout
	if !a.StdoutTo.IsZero() {
		f, err := os.Create(g.abs(a.StdoutTo))
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "file", a.StdoutTo.String())
		}
		defer func() { _ = f.Close() }()
		stdout = f
	}

	if err := g.deps.Executor.Execute(ctx, g.deps.Root, a, g.idx.ctx.Env, stdout, g.opts.Stderr); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrActionFailed.Error()), "command", strings.Join(argv, " "))
	}
	return nil
}

func (g *Graph) concat(target domain.Path, srcs []domain.Path) (err error) {
	out, err := os.OpenFile(g.abs(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	for _, src := range srcs {
		if err := appendFile(out, g.abs(src)); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	_, err = io.Copy(w, in)
	return err
}

// commit checks every target was produced and records its build info.
func (g *Graph) commit(rule *domain.Rule, inputHash string) (map[domain.Path]domain.Artifact, error) {
	arts := make(map[domain.Path]domain.Artifact, len(rule.Targets))
	for _, t := range rule.Targets {
		abs := g.abs(t)
		if _, err := os.Stat(abs); err != nil {
			if rule.Loc != nil {
				return nil, domain.NewLocError(*rule.Loc, "rule failed to generate the following target: %s", t)
			}
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotProduced, t.String()), "action", rule.Action.Describe())
		}
		digest, err := g.deps.Hasher.FileDigest(abs)
		if err != nil {
			return nil, err
		}
		arts[t] = domain.Artifact{Path: t, Digest: digest}

		info := domain.BuildInfo{
			Context:    g.idx.ctx.ID(),
			Target:     t.String(),
			InputHash:  inputHash,
			OutputHash: digest,
			Timestamp:  time.Now(),
		}
		if err := g.deps.Store.Put(g.deps.Root, info); err != nil {
			g.warn(err)
		}
	}
	return arts, nil
}

func (g *Graph) warn(err error) {
	if g.deps.Logger != nil {
		g.deps.Logger.Warn(err.Error())
	}
}
