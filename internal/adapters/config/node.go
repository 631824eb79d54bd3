package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/adapters/logger"
	"go.trai.ch/heifsys/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the manifest loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// SettingsNodeID is the unique identifier for the settings Graft node.
	SettingsNodeID graft.ID = "adapter.settings"
)

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ManifestLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return SettingsFromEnv(envscope.Process{}), nil
		},
	})
}
