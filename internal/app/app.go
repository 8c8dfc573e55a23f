// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/kiln/internal/adapters/buildlog"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/build"
	"go.trai.ch/kiln/internal/engine/gen"
	"go.trai.ch/kiln/internal/engine/rules"
	"go.trai.ch/kiln/internal/report"
	"go.trai.ch/zerr"
)

// DefaultBootstrapPackage is the package built by Bootstrap when none is named.
const DefaultBootstrapPackage = "kiln"

// LogOpener creates the command log of one invocation.
type LogOpener func(root string, args []string) (ports.BuildLog, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	contexts     ports.ContextFactory
	executor     ports.Executor
	store        ports.BuildInfoStore
	hasher       ports.Hasher
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      ports.Metrics
	watcher      ports.Watcher

	debounce time.Duration
	openLog  LogOpener
	getwd    func() (string, error)
	stdout   io.Writer
	stderr   io.Writer
	exit     func(int)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	contexts ports.ContextFactory,
	executor ports.Executor,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	log ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
) *App {
	return &App{
		configLoader: loader,
		contexts:     contexts,
		executor:     executor,
		store:        store,
		hasher:       hasher,
		logger:       log,
		tracer:       tracer,
		metrics:      metrics,
		debounce:     watcher.DefaultDebounceWindow,
		openLog: func(root string, args []string) (ports.BuildLog, error) {
			return buildlog.Open(root, args)
		},
		getwd:  os.Getwd,
		stdout: os.Stdout,
		stderr: os.Stderr,
		exit:   os.Exit,
	}
}

// WithOutput redirects action output and diagnostics.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithExit replaces the function called when a strict build fails.
func (a *App) WithExit(exit func(int)) *App {
	a.exit = exit
	return a
}

// WithLogOpener replaces how the command log is created.
func (a *App) WithLogOpener(open LogOpener) *App {
	a.openLog = open
	return a
}

// WithWatcher enables Watch.
func (a *App) WithWatcher(w ports.Watcher) *App {
	a.watcher = w
	return a
}

// WithDebounce sets how long Watch waits for changes to settle.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// WithWorkingDir fixes the directory the workspace root is searched from.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// SetLogFormat selects "pretty" or "json" log output.
func (a *App) SetLogFormat(format string) error {
	var json bool
	switch format {
	case "", "pretty":
	case "json":
		json = true
	default:
		return zerr.With(zerr.New("unknown log format"), "format", format)
	}
	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(json)
	}
	return nil
}

// SetupOptions configure one invocation.
type SetupOptions struct {
	// Jobs bounds the number of concurrent actions. Zero means one per CPU.
	Jobs    int
	Dev     bool
	Debug   bool
	NoCache bool
	// TraceFile, when set, receives a Chrome trace of the build.
	TraceFile string
	// Args are recorded in the header of the command log.
	Args []string
}

// Setup is the assembled build system of one invocation.
type Setup struct {
	Root     string
	Engine   *build.Engine
	Contexts []domain.Context
	Packages map[string]domain.Package
	Project  *domain.Project

	closers []func(context.Context) error
}

// Close flushes the command log and the trace file.
func (s *Setup) Close(ctx context.Context) error {
	var errs error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = errors.Join(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errs
}

// Setup loads the workspace, creates its contexts, generates the rules of
// every context and assembles the engine. It fails if any step fails.
func (a *App) Setup(ctx context.Context, opts SetupOptions) (s *Setup, err error) {
	root, err := a.root()
	if err != nil {
		return nil, err
	}

	specs, err := a.configLoader.LoadWorkspace(root)
	if err != nil {
		return nil, err
	}
	contexts, err := a.contexts.Create(ctx, specs, ports.ContextOptions{Dev: opts.Dev})
	if err != nil {
		return nil, err
	}
	project, err := a.configLoader.LoadProject(root)
	if err != nil {
		return nil, err
	}
	packages, err := a.configLoader.LoadPackages(root)
	if err != nil {
		return nil, err
	}

	indexes := make([]*rules.Index, 0, len(contexts))
	for _, c := range contexts {
		rs, err := gen.Rules(c, project, packages)
		if err != nil {
			return nil, err
		}
		idx, err := rules.NewIndex(c, rs)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}

	s = &Setup{
		Root:     root,
		Contexts: contexts,
		Packages: packages,
		Project:  project,
	}
	defer func() {
		if err != nil {
			_ = s.Close(ctx)
		}
	}()

	if opts.TraceFile != "" {
		s.closers = append(s.closers, telemetry.InstallTraceFile(opts.TraceFile))
	}

	log, err := a.openLog(root, opts.Args)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return log.Close() })

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	s.Engine = build.New(root, indexes, project.Libraries(), build.Collaborators{
		Executor: a.executor,
		Store:    a.store,
		Hasher:   a.hasher,
		Log:      log,
		Logger:   a.logger,
		Tracer:   a.tracer,
		Metrics:  a.metrics,
	}, build.Options{
		Jobs:       jobs,
		Debug:      opts.Debug,
		NoCache:    opts.NoCache,
		Stdout:     a.stdout,
		Stderr:     a.stderr,
		Exit:       a.exit,
		BeforeExit: func() { _ = s.Close(ctx) },
	})
	return s, nil
}

func (a *App) root() (string, error) {
	cwd, err := a.getwd()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	root, err := filepath.Abs(a.configLoader.FindRoot(cwd))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	return root, nil
}

// Build builds the targets named on the command line. Failures are printed
// to stderr and reported as domain.ErrBuildExecutionFailed.
func (a *App) Build(ctx context.Context, args []string, opts SetupOptions) (err error) {
	s, err := a.Setup(ctx, opts)
	if err != nil {
		return a.fail(err, opts.Debug)
	}
	defer func() {
		err = errors.Join(err, s.Close(ctx))
	}()

	targets, err := s.Engine.ResolveTargets(args)
	if err != nil {
		return a.fail(err, opts.Debug)
	}
	if err := s.Engine.DoBuild(ctx, targets); err != nil {
		return a.fail(err, opts.Debug)
	}
	return nil
}

// Watch builds args, then builds them again each time files of the
// workspace change, until ctx is cancelled. A failed build is printed and
// watching continues.
func (a *App) Watch(ctx context.Context, args []string, opts SetupOptions) error {
	if a.watcher == nil {
		return zerr.New("watch mode is not available")
	}
	root, err := a.root()
	if err != nil {
		return a.fail(err, opts.Debug)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	changed := make(chan int, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case changed <- len(paths):
		default:
		}
	})
	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	_ = a.Build(ctx, args, opts)
	for {
		a.logger.Info("watching for changes")
		select {
		case <-ctx.Done():
			return nil
		case n := <-changed:
			a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", n))
			_ = a.Build(ctx, args, opts)
		}
	}
}

// ExternalLibDeps reports, for the install file of each named package in the
// default context, the libraries that must come from outside the project.
func (a *App) ExternalLibDeps(
	ctx context.Context,
	packages []string,
	opts SetupOptions,
) (res map[domain.Path]domain.LibDeps, err error) {
	s, err := a.Setup(ctx, opts)
	if err != nil {
		return nil, a.fail(err, opts.Debug)
	}
	defer func() {
		err = errors.Join(err, s.Close(ctx))
	}()

	def, ok := domain.FindContext(s.Contexts, domain.DefaultContextName)
	if !ok {
		return nil, a.fail(domain.Fatalf("You need to set a default context to use external-lib-deps"), opts.Debug)
	}

	targets := make([]domain.Path, 0, len(packages))
	for _, name := range packages {
		pkg, ok := s.Packages[name]
		if !ok {
			return nil, a.fail(&domain.UnknownPackageError{Name: name}, opts.Debug)
		}
		targets = append(targets, pkg.InstallTarget(def))
	}

	res, err = s.Engine.AllLibDeps(def.Name, targets)
	if err != nil {
		return nil, a.fail(err, opts.Debug)
	}
	return res, nil
}

// BootstrapOptions configure Bootstrap.
type BootstrapOptions struct {
	Jobs      int
	Dev       bool
	Debug     bool
	NoCache   bool
	TraceFile string
	Package   string
	Args      []string
}

// Bootstrap builds the install file of a package in the default context. A
// failure is printed and terminates the process with status 1.
func (a *App) Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	s, err := a.Setup(ctx, SetupOptions{
		Jobs:      opts.Jobs,
		Dev:       opts.Dev,
		Debug:     opts.Debug,
		NoCache:   opts.NoCache,
		TraceFile: opts.TraceFile,
		Args:      opts.Args,
	})
	if err != nil {
		report.Print(a.stderr, err, report.Options{Debug: opts.Debug})
		a.exit(1)
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	defer func() { _ = s.Close(ctx) }()

	name := opts.Package
	if name == "" {
		name = DefaultBootstrapPackage
	}
	def := domain.NewContext(domain.DefaultContextName, nil)
	target := def.BuildDir.Join(name + domain.InstallFileExt)
	if pkg, ok := s.Packages[name]; ok {
		target = pkg.InstallTarget(def)
	}

	s.Engine.DoBuildStrict(ctx, []domain.Path{target})
	return nil
}

// Clean removes the build directory of the workspace.
func (a *App) Clean(_ context.Context) error {
	root, err := a.root()
	if err != nil {
		return err
	}

	path := filepath.Join(root, domain.DefaultBuildPath())
	a.logger.Info(fmt.Sprintf("removing %s...", domain.DefaultBuildPath()))
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "path", path)
	}
	a.logger.Info(fmt.Sprintf("removed %s", domain.DefaultBuildPath()))
	return nil
}

// fail prints err and marks it as already reported.
func (a *App) fail(err error, debug bool) error {
	report.Print(a.stderr, err, report.Options{Debug: debug})
	return errors.Join(domain.ErrBuildExecutionFailed, err)
}
