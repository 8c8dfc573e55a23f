// Package config loads directory stanzas, the workspace file and the package
// table of a kiln project.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader on YAML and HCL stanza files.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

var (
	validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	yamlLineRegex  = regexp.MustCompile(`line (\d+)`)
)

// FindRoot returns the nearest ancestor of cwd holding a workspace file, or
// cwd itself when there is none.
func (l *Loader) FindRoot(cwd string) string {
	dir := cwd
	for {
		if _, err := l.FS.Stat(filepath.Join(dir, domain.WorkFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// LoadProject reads the stanzas of every directory below root. Directories
// whose name starts with "." or "_" are skipped.
func (l *Loader) LoadProject(root string) (*domain.Project, error) {
	proj := &domain.Project{Root: root}
	libs := make(map[string]*domain.Loc)

	err := l.FS.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return fs.SkipDir
		}

		ds, err := l.loadDir(root, path)
		if err != nil || ds == nil {
			return err
		}
		for _, lib := range ds.Libraries {
			if prev, ok := libs[lib.Name]; ok {
				return domain.NewLocError(*lib.Loc, "library %q is already defined at %s", lib.Name, prev)
			}
			libs[lib.Name] = lib.Loc
		}
		proj.Dirs = append(proj.Dirs, ds)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proj, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func (l *Loader) loadDir(root, dir string) (*domain.DirStanzas, error) {
	rel := relSlash(root, dir)
	yamlPath := filepath.Join(dir, domain.StanzaFileName)
	hclPath := filepath.Join(dir, domain.HCLStanzaFileName)

	_, yamlErr := l.FS.Stat(yamlPath)
	_, hclErr := l.FS.Stat(hclPath)

	switch {
	case yamlErr == nil && hclErr == nil:
		return nil, domain.Fatalf("%s: only one of %s and %s may be present",
			rel, domain.StanzaFileName, domain.HCLStanzaFileName)
	case yamlErr == nil:
		data, err := l.read(yamlPath, rel)
		if err != nil {
			return nil, err
		}
		return decodeStanzaYAML(data, domain.NewPath(rel), slashJoin(rel, domain.StanzaFileName))
	case hclErr == nil:
		data, err := l.read(hclPath, rel)
		if err != nil {
			return nil, err
		}
		return decodeStanzaHCL(data, domain.NewPath(rel), slashJoin(rel, domain.HCLStanzaFileName))
	default:
		return nil, nil
	}
}

func (l *Loader) read(path, rel string) ([]byte, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return nil, zerr.With(err, "directory", rel)
	}
	return data, nil
}

// LoadWorkspace reads the context list. Without a workspace file the
// project has the single default context.
func (l *Loader) LoadWorkspace(root string) ([]domain.ContextSpec, error) {
	defaults := []domain.ContextSpec{{Name: domain.DefaultContextName, Default: true}}

	path := filepath.Join(root, domain.WorkFileName)
	data, err := l.FS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", domain.WorkFileName)
	}

	var wf Workfile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, yamlError(domain.WorkFileName, err)
	}
	if len(wf.Contexts) == 0 {
		l.Logger.Warn(fmt.Sprintf("%s lists no contexts, using %q", domain.WorkFileName, domain.DefaultContextName))
		return defaults, nil
	}

	specs := make([]domain.ContextSpec, 0, len(wf.Contexts))
	seen := make(map[string]bool, len(wf.Contexts))
	for _, c := range wf.Contexts {
		loc := &domain.Loc{File: domain.WorkFileName, Line: c.pos.line, StartCol: c.pos.column - 1, EndCol: c.pos.column - 1 + len(c.Name)}
		if c.isDefault && c.Name != domain.DefaultContextName {
			return nil, domain.NewLocError(*loc, "expected %q or a context definition, got %q", domain.DefaultContextName, c.Name)
		}
		if !validNameRegex.MatchString(c.Name) {
			return nil, domain.NewLocError(*loc, "invalid context name %q", c.Name)
		}
		if seen[c.Name] {
			return nil, domain.NewLocError(*loc, "context %q is defined twice", c.Name)
		}
		seen[c.Name] = true

		specs = append(specs, domain.ContextSpec{
			Name:    c.Name,
			Switch:  c.Switch,
			Root:    c.Root,
			Default: c.isDefault || (c.Name == domain.DefaultContextName && c.Switch == "" && c.Root == ""),
			Loc:     loc,
		})
	}
	return specs, nil
}

// LoadPackages reads every <name>.pkg file below root.
func (l *Loader) LoadPackages(root string) (map[string]domain.Package, error) {
	pkgs := make(map[string]domain.Package)

	err := l.FS.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != domain.PackageFileExt {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), domain.PackageFileExt)
		dir := relSlash(root, filepath.Dir(path))
		if prev, ok := pkgs[name]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, ""), "package", name)
			err = zerr.With(err, "first_occurrence", prev.Path.String())
			return zerr.With(err, "duplicate_at", dir)
		}

		data, err := l.read(path, dir)
		if err != nil {
			return err
		}
		var dto PackageDTO
		if err := yaml.Unmarshal(data, &dto); err != nil {
			return yamlError(slashJoin(dir, d.Name()), err)
		}

		pkgs[name] = domain.Package{
			Name:     name,
			Path:     domain.NewPath(dir),
			Version:  dto.Version,
			Synopsis: dto.Synopsis,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

// yamlError turns a yaml.v3 error into a located error when it names a line.
func yamlError(file string, err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	if m := yamlLineRegex.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		msg = strings.TrimSpace(strings.Replace(msg, m[0]+":", "", 1))
		msg = strings.TrimPrefix(msg, "unmarshal errors:\n")
		return domain.NewLocError(domain.Loc{File: file, Line: line}, "%s", strings.TrimSpace(msg))
	}
	return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", file)
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func slashJoin(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}
