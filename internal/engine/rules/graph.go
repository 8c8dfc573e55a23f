package rules

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/task"
	"go.trai.ch/zerr"
)

// Deps are the collaborators a Graph executes rules with.
type Deps struct {
	// Root is the absolute workspace directory all paths are relative to.
	Root     string
	Executor ports.Executor
	Store    ports.BuildInfoStore
	Hasher   ports.Hasher
	Log      ports.BuildLog
	Logger   ports.Logger
	Metrics  ports.Metrics
}

// Options tune a Graph.
type Options struct {
	// NoCache runs every action regardless of recorded build info.
	NoCache bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type state int

const (
	inProgress state = iota + 1
	done
)

type node struct {
	id    domain.Path
	state state
	done  chan struct{}

	artifacts map[domain.Path]domain.Artifact
	err       error
}

// Graph memoizes rule evaluation for a single build run. Each rule is
// evaluated at most once; concurrent requests for the same target wait for
// the first evaluation and share its result or failure.
type Graph struct {
	idx  *Index
	deps Deps
	opts Options

	mu    sync.Mutex
	nodes map[domain.Path]*node
	// waits holds, for every requester, the in-progress nodes it is blocked on.
	waits map[domain.Path]map[domain.Path]int
}

// NewGraph creates an empty memo table over idx.
func NewGraph(idx *Index, deps Deps, opts Options) *Graph {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Graph{
		idx:   idx,
		deps:  deps,
		opts:  opts,
		nodes: make(map[domain.Path]*node),
		waits: make(map[domain.Path]map[domain.Path]int),
	}
}

// Index returns the rule set the graph evaluates.
func (g *Graph) Index() *Index {
	return g.idx
}

// GetOrBuild returns a task producing target. Targets without a rule resolve
// to existing source files.
func (g *Graph) GetOrBuild(target domain.Path) task.Task[domain.Artifact] {
	return g.request(domain.Path{}, target)
}

func (g *Graph) request(from, target domain.Path) task.Task[domain.Artifact] {
	return func(ctx context.Context, s *task.Scheduler) (domain.Artifact, error) {
		rule, _ := g.idx.Rule(target)
		id := target
		if rule != nil {
			id = rule.ID()
		}

		n, fresh, err := g.claim(from, id)
		if err != nil {
			return domain.Artifact{}, err
		}
		if fresh {
			g.evaluate(ctx, s, n, rule)
		} else {
			<-n.done
		}
		g.unwait(from, id)

		if n.err != nil {
			return domain.Artifact{}, n.err
		}
		return n.artifacts[target], nil
	}
}

// claim returns the node for id, creating it when this is the first request.
// A request that would wait on its own evaluation fails with a CycleError.
func (g *Graph) claim(from, id domain.Path) (*node, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if ok && n.state == done {
		return n, false, nil
	}

	if ok && !from.IsZero() {
		if path := g.waitPath(id, from); path != nil {
			return nil, false, &domain.CycleError{Cycle: append([]domain.Path{from}, path...)}
		}
	}

	fresh := !ok
	if fresh {
		n = &node{id: id, state: inProgress, done: make(chan struct{})}
		g.nodes[id] = n
	}
	if !from.IsZero() {
		w := g.waits[from]
		if w == nil {
			w = make(map[domain.Path]int)
			g.waits[from] = w
		}
		w[id]++
	}
	return n, fresh, nil
}

// waitPath returns the chain of waits leading from start to goal, both
// included, or nil. Must be called with g.mu held.
func (g *Graph) waitPath(start, goal domain.Path) []domain.Path {
	if start == goal {
		return []domain.Path{start}
	}
	seen := map[domain.Path]bool{start: true}
	var walk func(p domain.Path) []domain.Path
	walk = func(p domain.Path) []domain.Path {
		for next := range g.waits[p] {
			if next == goal {
				return []domain.Path{p, next}
			}
			if seen[next] {
				continue
			}
			seen[next] = true
			if rest := walk(next); rest != nil {
				return append([]domain.Path{p}, rest...)
			}
		}
		return nil
	}
	return walk(start)
}

func (g *Graph) unwait(from, id domain.Path) {
	if from.IsZero() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	w := g.waits[from]
	if w[id]--; w[id] <= 0 {
		delete(w, id)
	}
	if len(w) == 0 {
		delete(g.waits, from)
	}
}

func (g *Graph) evaluate(ctx context.Context, s *task.Scheduler, n *node, rule *domain.Rule) {
	var (
		arts map[domain.Path]domain.Artifact
		err  error
	)
	defer func() {
		g.mu.Lock()
		n.state = done
		n.artifacts, n.err = arts, err
		g.mu.Unlock()
		close(n.done)
	}()
	defer zerr.Defer(func(perr error) {
		arts, err = nil, domain.NewBuildError(n.id, perr)
	})

	if rule == nil {
		arts, err = g.source(n.id)
		return
	}
	arts, err = g.build(ctx, s, rule)
}

func (g *Graph) source(p domain.Path) (map[domain.Path]domain.Artifact, error) {
	if p.IsBuild() {
		return nil, domain.NewBuildError(p, &domain.NoRuleError{Target: p})
	}
	abs := g.abs(p)
	fi, err := os.Stat(abs)
	if err != nil || fi.IsDir() {
		return nil, domain.NewBuildError(p, &domain.NoRuleError{Target: p})
	}
	digest, err := g.deps.Hasher.FileDigest(abs)
	if err != nil {
		return nil, domain.NewBuildError(p, err)
	}
	return map[domain.Path]domain.Artifact{
		p: {Path: p, Digest: digest, Source: true},
	}, nil
}

func (g *Graph) build(ctx context.Context, s *task.Scheduler, rule *domain.Rule) (map[domain.Path]domain.Artifact, error) {
	id := rule.ID()

	out, err := task.Bind(g.inputs(id, rule), func(inputs []domain.Artifact) task.Task[map[domain.Path]domain.Artifact] {
		digests := make([]string, len(inputs))
		for i, a := range inputs {
			digests[i] = a.Path.String() + ":" + a.Digest
		}

		info := task.ActionInfo{Name: id.String(), Context: g.idx.ctx.Name}
		return task.Action(info, func(ctx context.Context) (map[domain.Path]domain.Artifact, error) {
			return g.run(ctx, rule, digests)
		})
	})(ctx, s)
	if err != nil {
		return nil, domain.NewBuildError(id, err)
	}
	return out, nil
}

// inputs yields the artifacts of the static deps of rule, then its dynamic
// deps file and the deps that file lists. The static deps and the deps file
// are requested together.
func (g *Graph) inputs(id domain.Path, rule *domain.Rule) task.Task[[]domain.Artifact] {
	static := task.All(g.requests(id, rule.Deps))
	dd := rule.Dynamic
	if dd == nil {
		return static
	}

	type ready = task.Pair[[]domain.Artifact, domain.Artifact]
	return task.Bind(task.Both(static, g.request(id, dd.Source)), func(r ready) task.Task[[]domain.Artifact] {
		known := slices.Concat(r.First, []domain.Artifact{r.Second})
		paths, err := g.listed(dd)
		if err != nil {
			return task.Fail[[]domain.Artifact](err)
		}
		if len(paths) == 0 {
			return task.Return(known)
		}
		return task.Map(task.All(g.requests(id, paths)), func(arts []domain.Artifact) []domain.Artifact {
			return slices.Concat(known, arts)
		})
	})
}

// listed reads the paths named by a built deps file.
func (g *Graph) listed(dd *domain.DynamicDeps) ([]domain.Path, error) {
	data, err := os.ReadFile(g.abs(dd.Source))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDynamicDepsFailed.Error()), "file", dd.Source.String())
	}
	paths, err := dd.Parse(dd.Source.Dir(), data)
	if err != nil {
		if domain.KindOf(err) != domain.KindUncategorized {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDynamicDepsFailed.Error()), "file", dd.Source.String())
	}
	return paths, nil
}

func (g *Graph) requests(from domain.Path, targets []domain.Path) []task.Task[domain.Artifact] {
	seen := make(map[domain.Path]bool, len(targets))
	tasks := make([]task.Task[domain.Artifact], 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		tasks = append(tasks, g.request(from, t))
	}
	return tasks
}

// Evaluated returns the ids of every node evaluated so far, sorted.
func (g *Graph) Evaluated() []domain.Path {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]domain.Path, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, comparePaths)
	return ids
}

func (g *Graph) abs(p domain.Path) string {
	return joinRoot(g.deps.Root, p)
}

func joinRoot(root string, p domain.Path) string {
	return filepath.Join(root, filepath.FromSlash(p.String()))
}

func comparePaths(a, b domain.Path) int {
	switch {
	case a.String() < b.String():
		return -1
	case a.String() > b.String():
		return 1
	default:
		return 0
	}
}
