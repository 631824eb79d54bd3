package autotools

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/adapters/shell"
	"go.trai.ch/heifsys/internal/core/ports"
)

// NodeID is the unique identifier for the autotools builder Graft node.
const NodeID graft.ID = "adapter.builder.autotools"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor), nil
		},
	})
}
