package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/heifsys/internal/adapters/config"
	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/core/domain"
)

// emptyEnv is an environment with no variables at all.
type emptyEnv struct{}

func (emptyEnv) Lookup(string) (string, bool) { return "", false }
func (emptyEnv) Set(string, string) error     { return nil }
func (emptyEnv) Unset(string) error           { return nil }
func (emptyEnv) Environ() []string            { return nil }

func newEnv(t *testing.T, vars map[string]string) envscope.Env {
	t.Helper()
	env := envscope.NewOverlay(emptyEnv{})
	for k, v := range vars {
		assert.NoError(t, env.Set(k, v))
	}
	return env
}

func TestSettingsFromEnv_Defaults(t *testing.T) {
	s := config.SettingsFromEnv(newEnv(t, nil))

	assert.False(t, s.Docs)
	assert.Equal(t, "x265", s.Backend)
	assert.Equal(t, "system", s.Strategy)
	assert.Equal(t, domain.HostTarget().Triple, s.Target)
	assert.Equal(t, config.DefaultOutDir, s.OutDir)
	assert.Equal(t, config.DefaultSourceDir, s.SourceDir)
	assert.Empty(t, s.Manifest)
	assert.Empty(t, s.ToolchainFile)
}

func TestSettingsFromEnv_Overrides(t *testing.T) {
	s := config.SettingsFromEnv(newEnv(t, map[string]string{
		config.EnvBackend:       "kvazaar",
		config.EnvStrategy:      "vendored",
		config.EnvTarget:        "wasm32-unknown-emscripten",
		config.EnvOutDir:        "/tmp/out",
		config.EnvManifest:      "custom.yaml",
		config.EnvToolchainFile: "/opt/toolchain.cmake",
		config.EnvEmscriptenSDK: "/opt/emsdk",
	}))

	assert.Equal(t, "kvazaar", s.Backend)
	assert.Equal(t, "vendored", s.Strategy)
	assert.Equal(t, "wasm32-unknown-emscripten", s.Target)
	assert.Equal(t, "/tmp/out", s.OutDir)
	assert.Equal(t, "custom.yaml", s.Manifest)
	assert.Equal(t, "/opt/toolchain.cmake", s.ToolchainFile)
}

func TestSettingsFromEnv_Docs(t *testing.T) {
	assert.True(t, config.SettingsFromEnv(newEnv(t, map[string]string{config.EnvDocsRS: ""})).Docs)
	assert.True(t, config.SettingsFromEnv(newEnv(t, map[string]string{config.EnvDocs: "1"})).Docs)
}

func TestSettingsFromEnv_EmscriptenToolchain(t *testing.T) {
	s := config.SettingsFromEnv(newEnv(t, map[string]string{config.EnvEmscriptenSDK: "/opt/emsdk"}))

	assert.Equal(t,
		filepath.Join("/opt/emsdk", "upstream", "emscripten", "cmake", "Modules", "Platform", "Emscripten.cmake"),
		s.ToolchainFile)
}
