package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/core/ports"
)

// NodeID is the unique identifier for the build info store factory Graft node.
const NodeID graft.ID = "adapter.build_info_store"

func init() {
	graft.Register(graft.Node[ports.StoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StoreFactory, error) {
			return Open, nil
		},
	})
}
