// Package contexts implements the ContextFactory port.
package contexts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Environment variables set for named contexts.
const (
	EnvContext = "KILN_CONTEXT"
	EnvSwitch  = "KILN_SWITCH"
	EnvRoot    = "KILN_ROOT"
)

// Factory implements ports.ContextFactory.
//
// The default context mirrors the ambient toolchain. It is computed once per
// factory, on first use.
type Factory struct {
	logger ports.Logger
	getenv func(string) string
	stat   func(string) (os.FileInfo, error)

	ambient func() ([]string, error)
}

// NewFactory creates a Factory reading the process environment.
func NewFactory(logger ports.Logger) *Factory {
	return newFactory(logger, os.Getenv, os.Stat)
}

func newFactory(logger ports.Logger, getenv func(string) string, stat func(string) (os.FileInfo, error)) *Factory {
	f := &Factory{logger: logger, getenv: getenv, stat: stat}
	f.ambient = sync.OnceValues(f.ambientEnv)
	return f
}

// Create builds one context per spec, preserving order.
func (f *Factory) Create(ctx context.Context, specs []domain.ContextSpec, opts ports.ContextOptions) ([]domain.Context, error) {
	if len(specs) == 0 {
		return nil, zerr.New("no build context specified")
	}

	contexts := make([]domain.Context, len(specs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, spec := range specs {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			c, err := f.create(spec)
			if err != nil {
				return err
			}
			if opts.Dev {
				c.Profile = "dev"
			}
			contexts[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contexts, nil
}

func (f *Factory) create(spec domain.ContextSpec) (domain.Context, error) {
	if spec.Default || spec.Name == domain.DefaultContextName {
		env, err := f.ambient()
		if err != nil {
			return domain.Context{}, err
		}
		return domain.NewContext(domain.DefaultContextName, slices.Clone(env)), nil
	}

	if spec.Name == "" {
		return domain.Context{}, zerr.New("context has no name")
	}

	env := []string{EnvContext + "=" + spec.Name}
	if spec.Switch != "" {
		env = append(env, EnvSwitch+"="+spec.Switch)
	}
	if spec.Root != "" {
		env = append(env, EnvRoot+"="+spec.Root)
	}

	path := f.getenv("PATH")
	if spec.Root != "" {
		bin := filepath.Join(spec.Root, spec.Switch, "bin")
		if _, err := f.stat(bin); err != nil {
			f.logger.Warn("toolchain directory " + bin + " of context " + spec.Name + " does not exist")
		}
		path = prependPath(bin, path)
	}
	if path != "" {
		env = append(env, "PATH="+path)
	}
	slices.Sort(env)

	c := domain.NewContext(spec.Name, env)
	c.Switch = spec.Switch
	c.Root = spec.Root
	return c, nil
}

func (f *Factory) ambientEnv() ([]string, error) {
	var env []string
	if path := f.getenv("PATH"); path != "" {
		env = append(env, "PATH="+path)
	}
	return env, nil
}

func prependPath(dir, path string) string {
	if path == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + path
}
