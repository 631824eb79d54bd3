package config

import (
	"path/filepath"

	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/core/domain"
)

// Environment variables read by SettingsFromEnv.
const (
	EnvDocs          = "HEIFSYS_DOCS"
	EnvDocsRS        = "DOCS_RS"
	EnvBackend       = "HEIFSYS_BACKEND"
	EnvTarget        = "HEIFSYS_TARGET"
	EnvSourceDir     = "HEIFSYS_SOURCE_DIR"
	EnvOutDir        = "HEIFSYS_OUT_DIR"
	EnvStrategy      = "HEIFSYS_STRATEGY"
	EnvManifest      = "HEIFSYS_MANIFEST"
	EnvToolchainFile = "HEIFSYS_TOOLCHAIN_FILE"
	EnvEmscriptenSDK = "EMSDK"
)

const (
	// DefaultOutDir is the output root used when none is configured.
	DefaultOutDir = ".heifsys/out"
	// DefaultSourceDir holds the vendored source trees.
	DefaultSourceDir = "."
)

// Settings are the run settings before command-line overrides.
// Values stay unparsed so a bad environment value surfaces only when used.
type Settings struct {
	Docs          bool
	Backend       string
	Strategy      string
	Target        string
	SourceDir     string
	OutDir        string
	Manifest      string
	ToolchainFile string
}

// SettingsFromEnv reads the settings from env, filling in defaults.
// The presence of either docs variable enables the docs short-circuit.
func SettingsFromEnv(env envscope.Env) *Settings {
	s := &Settings{
		Backend:   domain.BackendX265.String(),
		Strategy:  domain.StrategySystem.String(),
		Target:    domain.HostTarget().Triple,
		SourceDir: DefaultSourceDir,
		OutDir:    DefaultOutDir,
	}

	_, docs := env.Lookup(EnvDocs)
	_, docsRS := env.Lookup(EnvDocsRS)
	s.Docs = docs || docsRS

	lookup(env, EnvBackend, &s.Backend)
	lookup(env, EnvStrategy, &s.Strategy)
	lookup(env, EnvTarget, &s.Target)
	lookup(env, EnvSourceDir, &s.SourceDir)
	lookup(env, EnvOutDir, &s.OutDir)
	lookup(env, EnvManifest, &s.Manifest)
	lookup(env, EnvToolchainFile, &s.ToolchainFile)

	if s.ToolchainFile == "" {
		if sdk, ok := env.Lookup(EnvEmscriptenSDK); ok && sdk != "" {
			s.ToolchainFile = filepath.Join(sdk, "upstream", "emscripten", "cmake", "Modules", "Platform", "Emscripten.cmake")
		}
	}
	return s
}

func lookup(env envscope.Env, key string, dst *string) {
	if v, ok := env.Lookup(key); ok && v != "" {
		*dst = v
	}
}
