package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// HasherNodeID is the unique identifier for the hasher Graft node.
const HasherNodeID graft.ID = "adapter.fs.hasher"

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
