package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/heifsys/internal/adapters/autotools"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/adapters/cmake"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/adapters/compile"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cmake.NodeID,
			autotools.NodeID,
			compile.NodeID,
			fs.HasherNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			cmakeBuilder, err := graft.Dep[*cmake.Builder](ctx)
			if err != nil {
				return nil, err
			}

			autotoolsBuilder, err := graft.Dep[*autotools.Builder](ctx)
			if err != nil {
				return nil, err
			}

			compileBuilder, err := graft.Dep[*compile.Builder](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			builders := ports.BuilderSet{
				domain.ToolCMake:     cmakeBuilder,
				domain.ToolAutotools: autotoolsBuilder,
				domain.ToolCompile:   compileBuilder,
			}
			return New(builders, hasher, telemetry, log), nil
		},
	})
}
