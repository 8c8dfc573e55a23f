package domain

// Package is an installable unit of the project.
type Package struct {
	Name     string
	Path     Path
	Version  string
	Synopsis string
}

// InstallFile returns <path>/<name>.install, relative to the source root.
func (p Package) InstallFile() Path {
	return p.Path.Join(p.Name + InstallFileExt)
}

// InstallTarget returns the install file inside the given context.
func (p Package) InstallTarget(ctx Context) Path {
	return ctx.BuildDir.Join(p.InstallFile().String())
}
