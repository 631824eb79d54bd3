// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/heifsys/internal/adapters/autotools"
	_ "go.trai.ch/heifsys/internal/adapters/bindgen"
	_ "go.trai.ch/heifsys/internal/adapters/cas"
	_ "go.trai.ch/heifsys/internal/adapters/cmake"
	_ "go.trai.ch/heifsys/internal/adapters/compile"
	_ "go.trai.ch/heifsys/internal/adapters/config"
	_ "go.trai.ch/heifsys/internal/adapters/fs"
	_ "go.trai.ch/heifsys/internal/adapters/logger"
	_ "go.trai.ch/heifsys/internal/adapters/pkgconfig"
	_ "go.trai.ch/heifsys/internal/adapters/shell"
	_ "go.trai.ch/heifsys/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/heifsys/internal/app"
	_ "go.trai.ch/heifsys/internal/engine/orchestrator"
	_ "go.trai.ch/heifsys/internal/engine/resolver"
)
