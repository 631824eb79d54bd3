package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/adapters/bindgen"            //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/pkgconfig"          //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/heifsys/internal/engine/orchestrator"
	"go.trai.ch/heifsys/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components are the values the command layer needs.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *config.Settings
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolver.NodeID,
			orchestrator.NodeID,
			pkgconfig.NodeID,
			bindgen.NodeID,
			cas.NodeID,
			progrock.NodeID,
			progrock.FeedNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	prober, err := graft.Dep[ports.Prober](ctx)
	if err != nil {
		return nil, err
	}

	bindings, err := graft.Dep[ports.BindingGenerator](ctx)
	if err != nil {
		return nil, err
	}

	openStore, err := graft.Dep[ports.StoreFactory](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	feed, err := graft.Dep[*progrock.Feed](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, res, orch, prober, bindings, openStore, telemetry, feed, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      app,
		Logger:   log,
		Settings: settings,
	}, nil
}
