package contexts

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the context factory Graft node.
const NodeID graft.ID = "adapter.context_factory"

func init() {
	graft.Register(graft.Node[ports.ContextFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ContextFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})
}
