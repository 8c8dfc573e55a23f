package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the project description.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// FindRoot returns the workspace root enclosing cwd.
	FindRoot(cwd string) string

	// LoadProject reads the stanzas of every directory below root.
	LoadProject(root string) (*domain.Project, error)

	// LoadWorkspace reads the context list from the workspace file.
	// Without a workspace file it returns the single default context.
	LoadWorkspace(root string) ([]domain.ContextSpec, error)

	// LoadPackages reads the package table.
	LoadPackages(root string) (map[string]domain.Package, error)
}
