package ports

import "go.trai.ch/kiln/internal/core/domain"

// Hasher defines the interface for computing digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// FileDigest hashes the content of the file at path.
	FileDigest(path string) (string, error)

	// ActionDigest hashes an action together with its environment and the
	// digests of its dependencies, in order.
	ActionDigest(action domain.Action, env []string, deps []string) string
}
