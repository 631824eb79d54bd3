package pkgconfig

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/adapters/shell"
	"go.trai.ch/heifsys/internal/core/ports"
)

// NodeID is the unique identifier for the library probe Graft node.
const NodeID graft.ID = "adapter.prober"

func init() {
	graft.Register(graft.Node[ports.Prober]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Prober, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor, nil), nil
		},
	})
}
