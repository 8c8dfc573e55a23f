package config

import "gopkg.in/yaml.v3"

// position is the start of a YAML node, 1-based.
type position struct {
	line   int
	column int
}

func positionOf(n *yaml.Node) position {
	return position{line: n.Line, column: n.Column}
}

// Stanzafile represents the structure of a kiln.yaml file.
type Stanzafile struct {
	Libraries   []*LibraryDTO    `yaml:"libraries"`
	Executables []*ExecutableDTO `yaml:"executables"`
	Rules       []*RuleDTO       `yaml:"rules"`
	Install     []*InstallDTO    `yaml:"install"`
}

// LibraryDTO represents a library stanza.
type LibraryDTO struct {
	Name      string      `yaml:"name"`
	Srcs      []string    `yaml:"srcs"`
	Libraries []LibDepDTO `yaml:"libraries"`

	pos position
}

// UnmarshalYAML records the position of the stanza.
func (d *LibraryDTO) UnmarshalYAML(n *yaml.Node) error {
	type raw LibraryDTO
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = positionOf(n)
	return nil
}

// ExecutableDTO represents an executable stanza.
type ExecutableDTO struct {
	Name      string      `yaml:"name"`
	Srcs      []string    `yaml:"srcs"`
	Libraries []LibDepDTO `yaml:"libraries"`

	pos position
}

// UnmarshalYAML records the position of the stanza.
func (d *ExecutableDTO) UnmarshalYAML(n *yaml.Node) error {
	type raw ExecutableDTO
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = positionOf(n)
	return nil
}

// RuleDTO represents a user rule.
type RuleDTO struct {
	Targets   []string    `yaml:"targets"`
	Deps      []string    `yaml:"deps"`
	DepsFile  string      `yaml:"deps_file"`
	Action    ActionDTO   `yaml:"action"`
	Libraries []LibDepDTO `yaml:"libraries"`

	pos position
}

// UnmarshalYAML records the position of the stanza.
func (d *RuleDTO) UnmarshalYAML(n *yaml.Node) error {
	type raw RuleDTO
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = positionOf(n)
	return nil
}

// ActionDTO is the action of a user rule; exactly one field is expected.
type ActionDTO struct {
	Run    []string `yaml:"run"`
	System string   `yaml:"system"`
	Write  *string  `yaml:"write"`
	Copy   string   `yaml:"copy"`
	Cat    []string `yaml:"cat"`
}

// InstallDTO attaches files to a package.
type InstallDTO struct {
	Package string   `yaml:"package"`
	Files   []string `yaml:"files"`

	pos position
}

// UnmarshalYAML records the position of the stanza.
func (d *InstallDTO) UnmarshalYAML(n *yaml.Node) error {
	type raw InstallDTO
	if err := n.Decode((*raw)(d)); err != nil {
		return err
	}
	d.pos = positionOf(n)
	return nil
}

// LibDepDTO is either a bare library name or {name, optional}.
type LibDepDTO struct {
	Name     string `yaml:"name"`
	Optional bool   `yaml:"optional"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (d *LibDepDTO) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		d.Name = n.Value
		return nil
	}
	type raw LibDepDTO
	return n.Decode((*raw)(d))
}

// Workfile represents the structure of the kiln.work.yaml file.
type Workfile struct {
	Contexts []*ContextDTO `yaml:"contexts"`
}

// ContextDTO is either the bare word "default" or {name, switch, root}.
type ContextDTO struct {
	Name   string `yaml:"name"`
	Switch string `yaml:"switch"`
	Root   string `yaml:"root"`

	isDefault bool
	pos       position
}

// UnmarshalYAML accepts the scalar "default" shorthand.
func (d *ContextDTO) UnmarshalYAML(n *yaml.Node) error {
	d.pos = positionOf(n)
	if n.Kind == yaml.ScalarNode {
		d.Name = n.Value
		d.isDefault = true
		return nil
	}
	type raw ContextDTO
	return n.Decode((*raw)(d))
}

// PackageDTO represents the metadata stored in a <name>.pkg file.
type PackageDTO struct {
	Version  string `yaml:"version"`
	Synopsis string `yaml:"synopsis"`
}
