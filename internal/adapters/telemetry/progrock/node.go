package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the telemetry adapter node.
	NodeID graft.ID = "adapter.telemetry"
	// FeedNodeID is the unique identifier for the progress feed node.
	FeedNodeID graft.ID = "adapter.telemetry.feed"
)

func init() {
	graft.Register(graft.Node[*Feed]{
		ID:        FeedNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Feed, error) {
			return NewFeed(), nil
		},
	})

	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FeedNodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			feed, err := graft.Dep[*Feed](ctx)
			if err != nil {
				return nil, err
			}
			return NewRecorder(feed), nil
		},
	})
}
