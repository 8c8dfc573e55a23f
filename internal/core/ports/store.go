package ports

import "go.trai.ch/kiln/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving cached action results.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a target within a context of the
	// workspace at root. Returns nil, nil if not found.
	Get(root, contextID, target string) (*domain.BuildInfo, error)

	// Put stores the build info in the workspace at root.
	Put(root string, info domain.BuildInfo) error
}
