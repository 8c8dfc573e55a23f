package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(nil), nil
		},
	})
}
