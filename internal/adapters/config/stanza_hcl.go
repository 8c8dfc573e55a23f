package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/kiln/internal/core/domain"
)

var stanzaSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "library", LabelNames: []string{"name"}},
		{Type: "executable", LabelNames: []string{"name"}},
		{Type: "rule"},
		{Type: "install", LabelNames: []string{"package"}},
	},
}

type hclArchive struct {
	Srcs      []string       `hcl:"srcs,optional"`
	Libraries hcl.Expression `hcl:"libraries,optional"`
}

type hclRule struct {
	Targets   []string       `hcl:"targets"`
	Deps      []string       `hcl:"deps,optional"`
	DepsFile  string         `hcl:"deps_file,optional"`
	Run       []string       `hcl:"run,optional"`
	System    string         `hcl:"system,optional"`
	Write     *string        `hcl:"write,optional"`
	Copy      string         `hcl:"copy,optional"`
	Cat       []string       `hcl:"cat,optional"`
	Libraries hcl.Expression `hcl:"libraries,optional"`
}

type hclInstall struct {
	Files []string `hcl:"files"`
}

func decodeStanzaHCL(data []byte, dir domain.Path, file string) (*domain.DirStanzas, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, file)
	if diags.HasErrors() {
		return nil, hclError(diags)
	}
	content, diags := f.Body.Content(stanzaSchema)
	if diags.HasErrors() {
		return nil, hclError(diags)
	}

	ds := &domain.DirStanzas{Dir: dir, File: file}
	for _, block := range content.Blocks {
		loc := rangeLoc(block.DefRange)
		switch block.Type {
		case "library", "executable":
			name := block.Labels[0]
			if len(block.LabelRanges) > 0 {
				loc = rangeLoc(block.LabelRanges[0])
			}
			if err := validateName(block.Type, name, loc); err != nil {
				return nil, err
			}
			var a hclArchive
			if diags := gohcl.DecodeBody(block.Body, nil, &a); diags.HasErrors() {
				return nil, hclError(diags)
			}
			deps, err := hclLibDeps(a.Libraries)
			if err != nil {
				return nil, err
			}
			if block.Type == "library" {
				ds.Libraries = append(ds.Libraries, domain.LibraryStanza{Name: name, Srcs: a.Srcs, Libraries: deps, Loc: loc})
			} else {
				ds.Executables = append(ds.Executables, domain.ExecutableStanza{Name: name, Srcs: a.Srcs, Libraries: deps, Loc: loc})
			}

		case "rule":
			var r hclRule
			if diags := gohcl.DecodeBody(block.Body, nil, &r); diags.HasErrors() {
				return nil, hclError(diags)
			}
			if len(r.Targets) == 0 {
				return nil, domain.NewLocError(*loc, "rule has no targets")
			}
			deps, err := hclLibDeps(r.Libraries)
			if err != nil {
				return nil, err
			}
			ds.Rules = append(ds.Rules, domain.RuleStanza{
				Targets:  r.Targets,
				Deps:     r.Deps,
				DepsFile: r.DepsFile,
				Action: domain.ActionStanza{
					Run:    r.Run,
					System: r.System,
					Write:  r.Write,
					Copy:   r.Copy,
					Cat:    r.Cat,
				},
				Libraries: deps,
				Loc:       loc,
			})

		case "install":
			var inst hclInstall
			if diags := gohcl.DecodeBody(block.Body, nil, &inst); diags.HasErrors() {
				return nil, hclError(diags)
			}
			ds.Installs = append(ds.Installs, domain.InstallStanza{Package: block.Labels[0], Files: inst.Files, Loc: loc})
		}
	}
	return ds, nil
}

// hclLibDeps reads a list whose elements are library names or objects of
// the form {name = "x", optional = true}.
func hclLibDeps(expr hcl.Expression) ([]domain.LibDep, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, hclError(diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	invalid := func() error {
		return domain.NewLocError(*rangeLoc(expr.Range()), "libraries must be a list of names or {name, optional} objects")
	}
	if !val.CanIterateElements() || val.Type().IsMapType() || val.Type().IsObjectType() {
		return nil, invalid()
	}

	var deps []domain.LibDep
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		switch {
		case v.Type() == cty.String:
			deps = append(deps, domain.LibDep{Name: v.AsString()})
		case v.Type().IsObjectType() && v.Type().HasAttribute("name"):
			name := v.GetAttr("name")
			if name.Type() != cty.String || name.IsNull() {
				return nil, invalid()
			}
			dep := domain.LibDep{Name: name.AsString()}
			if v.Type().HasAttribute("optional") {
				opt := v.GetAttr("optional")
				if opt.Type() == cty.Bool && !opt.IsNull() && opt.True() {
					dep.Kind = domain.Optional
				}
			}
			deps = append(deps, dep)
		default:
			return nil, invalid()
		}
	}
	return deps, nil
}

func hclError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += "; " + d.Detail
		}
		if d.Subject != nil {
			return domain.NewLocError(*rangeLoc(*d.Subject), "%s", msg)
		}
		return domain.Fatalf("%s", msg)
	}
	return diags
}

func rangeLoc(r hcl.Range) *domain.Loc {
	return &domain.Loc{
		File:     r.Filename,
		Line:     r.Start.Line,
		StartCol: r.Start.Column - 1,
		EndCol:   r.End.Column - 1,
	}
}
