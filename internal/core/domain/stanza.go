package domain

// Project is the parsed source tree: every directory with build stanzas.
type Project struct {
	Root string
	Dirs []*DirStanzas
}

// DirStanzas holds the stanzas declared in one directory.
type DirStanzas struct {
	Dir         Path
	File        string
	Libraries   []LibraryStanza
	Executables []ExecutableStanza
	Rules       []RuleStanza
	Installs    []InstallStanza
}

// LibraryStanza declares an internal library.
type LibraryStanza struct {
	Name      string
	Srcs      []string
	Libraries []LibDep
	Loc       *Loc
}

// ExecutableStanza declares a program linked against libraries.
type ExecutableStanza struct {
	Name      string
	Srcs      []string
	Libraries []LibDep
	Loc       *Loc
}

// RuleStanza declares a user rule.
type RuleStanza struct {
	Targets   []string
	Deps      []string
	DepsFile  string
	Action    ActionStanza
	Libraries []LibDep
	Loc       *Loc
}

// ActionStanza is the user-facing form of an Action; exactly one field is set.
type ActionStanza struct {
	Run    []string
	System string
	Write  *string
	Copy   string
	Cat    []string
}

// InstallStanza attaches files to a package.
type InstallStanza struct {
	Package string
	Files   []string
	Loc     *Loc
}

// LibraryIndex maps every internal library name to its stanza and directory.
type LibraryIndex map[string]LibraryEntry

// LibraryEntry locates an internal library.
type LibraryEntry struct {
	Dir    Path
	Stanza LibraryStanza
}

// Libraries indexes the internal libraries of the project.
func (p *Project) Libraries() LibraryIndex {
	idx := make(LibraryIndex)
	for _, d := range p.Dirs {
		for _, lib := range d.Libraries {
			idx[lib.Name] = LibraryEntry{Dir: d.Dir, Stanza: lib}
		}
	}
	return idx
}

// IsInternal reports whether name is a library defined in the project.
func (idx LibraryIndex) IsInternal(name string) bool {
	_, ok := idx[name]
	return ok
}
