package config

import (
	"go.trai.ch/kiln/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func decodeStanzaYAML(data []byte, dir domain.Path, file string) (*domain.DirStanzas, error) {
	var sf Stanzafile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, yamlError(file, err)
	}

	ds := &domain.DirStanzas{Dir: dir, File: file}
	locate := func(p position, width int) *domain.Loc {
		return &domain.Loc{File: file, Line: p.line, StartCol: p.column - 1, EndCol: p.column - 1 + width}
	}

	for _, lib := range sf.Libraries {
		loc := locate(lib.pos, len(lib.Name))
		if err := validateName("library", lib.Name, loc); err != nil {
			return nil, err
		}
		ds.Libraries = append(ds.Libraries, domain.LibraryStanza{
			Name:      lib.Name,
			Srcs:      lib.Srcs,
			Libraries: libDeps(lib.Libraries),
			Loc:       loc,
		})
	}

	for _, exe := range sf.Executables {
		loc := locate(exe.pos, len(exe.Name))
		if err := validateName("executable", exe.Name, loc); err != nil {
			return nil, err
		}
		ds.Executables = append(ds.Executables, domain.ExecutableStanza{
			Name:      exe.Name,
			Srcs:      exe.Srcs,
			Libraries: libDeps(exe.Libraries),
			Loc:       loc,
		})
	}

	for _, r := range sf.Rules {
		loc := locate(r.pos, 0)
		if len(r.Targets) == 0 {
			return nil, domain.NewLocError(*loc, "rule has no targets")
		}
		ds.Rules = append(ds.Rules, domain.RuleStanza{
			Targets:  r.Targets,
			Deps:     r.Deps,
			DepsFile: r.DepsFile,
			Action: domain.ActionStanza{
				Run:    r.Action.Run,
				System: r.Action.System,
				Write:  r.Action.Write,
				Copy:   r.Action.Copy,
				Cat:    r.Action.Cat,
			},
			Libraries: libDeps(r.Libraries),
			Loc:       loc,
		})
	}

	for _, inst := range sf.Install {
		loc := locate(inst.pos, 0)
		if inst.Package == "" {
			return nil, domain.NewLocError(*loc, "install stanza has no package")
		}
		ds.Installs = append(ds.Installs, domain.InstallStanza{
			Package: inst.Package,
			Files:   inst.Files,
			Loc:     loc,
		})
	}

	return ds, nil
}

func libDeps(dtos []LibDepDTO) []domain.LibDep {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]domain.LibDep, len(dtos))
	for i, d := range dtos {
		out[i] = domain.LibDep{Name: d.Name}
		if d.Optional {
			out[i].Kind = domain.Optional
		}
	}
	return out
}

func validateName(kind, name string, loc *domain.Loc) error {
	if name == "" {
		return domain.NewLocError(*loc, "%s has no name", kind)
	}
	if !validNameRegex.MatchString(name) {
		return domain.NewLocError(*loc, "invalid %s name %q", kind, name)
	}
	return nil
}
