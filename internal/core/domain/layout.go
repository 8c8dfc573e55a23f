package domain

import "path/filepath"

const (
	// BuildDirName is the root of every build output.
	BuildDirName = "_build"

	// DBDirName holds the action cache below the build directory.
	DBDirName = ".db"

	// LogFileName is the per-invocation command log below the build directory.
	LogFileName = "log"

	// MetricsFileName is the Prometheus text snapshot written after a build.
	MetricsFileName = "metrics.prom"

	// StanzaFileName is the per-directory build description.
	StanzaFileName = "kiln.yaml"

	// HCLStanzaFileName is the HCL alternative to StanzaFileName.
	HCLStanzaFileName = "kiln.hcl"

	// WorkFileName is the workspace file listing build contexts.
	WorkFileName = "kiln.work.yaml"

	// PackageFileExt marks package metadata files (<name>.pkg).
	PackageFileExt = ".pkg"

	// InstallFileExt is the suffix of a package's install manifest.
	InstallFileExt = ".install"

	// DefaultContextName is the context built from the ambient toolchain.
	DefaultContextName = "default"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultBuildPath returns the build directory relative to the workspace root.
func DefaultBuildPath() string {
	return BuildDirName
}

// DefaultStorePath returns the path of the action cache.
// It joins _build and .db.
func DefaultStorePath() string {
	return filepath.Join(BuildDirName, DBDirName)
}

// DefaultLogPath returns the path of the command log.
// It joins _build and log.
func DefaultLogPath() string {
	return filepath.Join(BuildDirName, LogFileName)
}

// DefaultMetricsPath returns the path of the metrics snapshot.
func DefaultMetricsPath() string {
	return filepath.Join(BuildDirName, MetricsFileName)
}

// ContextBuildDir returns the build directory of the named context.
func ContextBuildDir(name string) Path {
	return NewPath(BuildDirName + "/" + name)
}
