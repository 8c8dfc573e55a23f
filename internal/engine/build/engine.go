// Package build drives the rule graphs of every context to build a set of
// targets.
package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/rules"
	"go.trai.ch/kiln/internal/engine/task"
	"go.trai.ch/kiln/internal/report"
	"go.trai.ch/zerr"
)

// Options configure one Engine.
type Options struct {
	Jobs    int
	Debug   bool
	NoCache bool
	Stdout  io.Writer
	Stderr  io.Writer
	// Exit terminates the process after a strict build failure.
	Exit func(code int)
	// BeforeExit runs after a strict build failure is printed and before
	// Exit, so deferred work such as flushing the command log is not lost.
	BeforeExit func()
	// Rewrite maps file names in rendered diagnostics.
	Rewrite func(string) string
}

// Collaborators are the adapters an Engine executes actions with.
type Collaborators struct {
	Executor ports.Executor
	Store    ports.BuildInfoStore
	Hasher   ports.Hasher
	Log      ports.BuildLog
	Logger   ports.Logger
	Tracer   ports.Tracer
	Metrics  ports.Metrics
}

// Engine builds targets across contexts. Each call to DoBuild starts from
// fresh memo tables and a fresh scheduler.
type Engine struct {
	root      string
	contexts  []domain.Context
	indexes   map[string]*rules.Index
	libraries domain.LibraryIndex
	c         Collaborators
	opts      Options
}

// New creates an Engine over one rule index per context.
func New(root string, indexes []*rules.Index, libraries domain.LibraryIndex, c Collaborators, opts Options) *Engine {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	e := &Engine{
		root:      root,
		indexes:   make(map[string]*rules.Index, len(indexes)),
		libraries: libraries,
		c:         c,
		opts:      opts,
	}
	for _, idx := range indexes {
		e.contexts = append(e.contexts, idx.Context())
		e.indexes[idx.Context().Name] = idx
	}
	return e
}

// Contexts returns the contexts in workspace order.
func (e *Engine) Contexts() []domain.Context {
	return e.contexts
}

// Index returns the rule index of the named context.
func (e *Engine) Index(name string) (*rules.Index, bool) {
	idx, ok := e.indexes[name]
	return idx, ok
}

// ResolveTargets maps command-line arguments to targets. A build path is
// taken as is; any other path is expanded to every context.
func (e *Engine) ResolveTargets(args []string) ([]domain.Path, error) {
	if len(args) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	var targets []domain.Path
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			return nil, domain.Fatalf("aliases are not supported: %s", arg)
		}
		p := domain.NewPath(arg)
		if p.IsBuild() {
			targets = append(targets, p)
			continue
		}
		for _, c := range e.contexts {
			targets = append(targets, c.BuildDir.Join(p.String()))
		}
	}
	return targets, nil
}

// DoBuild builds targets, which must all live in a known context. It returns
// the first failure.
func (e *Engine) DoBuild(ctx context.Context, targets []domain.Path) error {
	groups, order, err := e.route(targets)
	if err != nil {
		return err
	}

	if e.c.Tracer != nil {
		var span ports.Span
		ctx, span = e.c.Tracer.Start(ctx, "build")
		defer span.End()
		e.c.Tracer.EmitPlan(ctx, domain.PathStrings(targets))
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
		}()
	}

	s := task.NewScheduler(e.opts.Jobs, task.WithTracer(e.c.Tracer), task.WithMetrics(e.c.Metrics))

	perContext := make([]task.Task[struct{}], 0, len(order))
	for _, name := range order {
		g := rules.NewGraph(e.indexes[name], e.graphDeps(), rules.Options{
			NoCache: e.opts.NoCache,
			Stdout:  e.opts.Stdout,
			Stderr:  e.opts.Stderr,
		})
		ts := make([]task.Task[domain.Artifact], len(groups[name]))
		for i, t := range groups[name] {
			ts[i] = g.GetOrBuild(t)
		}
		perContext = append(perContext, task.Ignore(task.All(ts)))
	}

	_, err = task.Run(ctx, s, task.All(perContext))
	e.writeMetrics()
	return err
}

// DoBuildStrict builds targets and terminates the process with status 1 on
// failure, after printing the diagnostic.
func (e *Engine) DoBuildStrict(ctx context.Context, targets []domain.Path) {
	if err := e.DoBuild(ctx, targets); err != nil {
		report.Print(e.opts.Stderr, err, report.Options{Debug: e.opts.Debug, Rewrite: e.opts.Rewrite})
		if e.opts.BeforeExit != nil {
			e.opts.BeforeExit()
		}
		e.opts.Exit(1)
	}
}

// route groups targets by context, keeping the workspace order of contexts.
func (e *Engine) route(targets []domain.Path) (map[string][]domain.Path, []string, error) {
	groups := make(map[string][]domain.Path)
	for _, t := range targets {
		name, ok := t.ContextName()
		if !ok {
			return nil, nil, zerr.With(zerr.Wrap(domain.ErrUnknownContext, t.String()), "target", t.String())
		}
		if _, known := e.indexes[name]; !known {
			return nil, nil, zerr.With(zerr.Wrap(domain.ErrUnknownContext, t.String()), "context", name)
		}
		groups[name] = append(groups[name], t)
	}

	var order []string
	for _, c := range e.contexts {
		if _, ok := groups[c.Name]; ok {
			order = append(order, c.Name)
		}
	}
	return groups, order, nil
}

func (e *Engine) graphDeps() rules.Deps {
	return rules.Deps{
		Root:     e.root,
		Executor: e.c.Executor,
		Store:    e.c.Store,
		Hasher:   e.c.Hasher,
		Log:      e.c.Log,
		Logger:   e.c.Logger,
		Metrics:  e.c.Metrics,
	}
}

func (e *Engine) writeMetrics() {
	if e.c.Metrics == nil {
		return
	}
	path := filepath.Join(e.root, domain.DefaultMetricsPath())
	if err := e.c.Metrics.WriteSnapshot(path); err != nil && e.c.Logger != nil {
		e.c.Logger.Warn(err.Error())
	}
}
