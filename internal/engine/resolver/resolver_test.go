package resolver_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/adapters/config"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/engine/resolver"
)

func manifest(t *testing.T) *domain.Manifest {
	t.Helper()
	m, err := config.NewLoader(nil).Load("")
	require.NoError(t, err)
	return m
}

func options(triple string, backend domain.EncoderBackend) domain.BuildOptions {
	return domain.BuildOptions{
		Target:     domain.ParseTarget(triple),
		Backend:    backend,
		SourceRoot: "/src",
		OutputRoot: "/out",
	}
}

func stepNames(plan *domain.Plan) []string {
	var names []string
	for s := range plan.Graph.Walk() {
		names = append(names, s.Name.String())
	}
	return names
}

func value(t *testing.T, step domain.Step, key string) string {
	t.Helper()
	v, ok := step.Config.Get(key)
	require.True(t, ok, "missing %s", key)
	return v.String()
}

func TestResolve_X265(t *testing.T) {
	plan, err := resolver.New().Resolve(manifest(t), options("x86_64-unknown-linux-gnu", domain.BackendX265))
	require.NoError(t, err)

	assert.Equal(t, []string{"libde265", "libwebp", "x265", "libheif"}, stepNames(plan))
	assert.Empty(t, plan.Skipped)

	top, ok := plan.TopStep()
	require.True(t, ok)
	assert.Equal(t, "/out/libde265;/out/libwebp;/out/x265", value(t, top, "CMAKE_PREFIX_PATH"))
	assert.Equal(t, "ON", value(t, top, "WITH_X265"))
	assert.Equal(t, "OFF", value(t, top, "WITH_KVAZAAR"))
	assert.Equal(t, "OFF", value(t, top, "WITH_KVAZAAR_PLUGIN"))
	assert.Equal(t, filepath.Join("/out", "x265", "include"), value(t, top, "X265_INCLUDE_DIR"))
	assert.Equal(t, filepath.Join("/out", "x265", "lib", "libx265.a"), value(t, top, "X265_LIBRARY"))
	assert.Equal(t, filepath.Join("/out", "libde265", "include"), value(t, top, "LIBDE265_INCLUDE_DIR"))
	assert.Equal(t, filepath.Join("/out", "libde265", "lib", "libde265.a"), value(t, top, "LIBDE265_LIBRARY"))

	_, hasKvazaar := top.Config.Get("KVAZAAR_LIBRARY")
	assert.False(t, hasKvazaar)
	assert.True(t, top.Config.Frozen())

	de265, _ := plan.Graph.Step("libde265")
	assert.Equal(t, filepath.Join("/src", "libde265"), de265.SourceDir)
	assert.Equal(t, filepath.Join("/out", "libde265"), de265.OutputDir)
	assert.Equal(t, domain.ToolCMake, de265.Tool)
}

func TestResolve_Kvazaar(t *testing.T) {
	plan, err := resolver.New().Resolve(manifest(t), options("x86_64-unknown-linux-gnu", domain.BackendKvazaar))
	require.NoError(t, err)

	assert.Equal(t, []string{"libde265", "libwebp", "kvazaar", "libheif"}, stepNames(plan))

	top, _ := plan.TopStep()
	assert.Equal(t, "OFF", value(t, top, "WITH_X265"))
	assert.Equal(t, "ON", value(t, top, "WITH_KVAZAAR"))
	assert.Equal(t, "ON", value(t, top, "WITH_KVAZAAR_PLUGIN"))
	assert.Equal(t, filepath.Join("/out", "kvazaar", "lib", "libkvazaar.a"), value(t, top, "KVAZAAR_LIBRARY"))
	_, hasX265 := top.Config.Get("X265_LIBRARY")
	assert.False(t, hasX265)
}

func TestResolve_Constrained(t *testing.T) {
	opts := options("wasm32-unknown-emscripten", domain.BackendX265)
	opts.ToolchainFile = "/emsdk/Emscripten.cmake"

	plan, err := resolver.New().Resolve(manifest(t), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"libde265", "x265", "libheif"}, stepNames(plan))
	assert.Equal(t, []domain.SkippedStep{{Name: "libwebp", Reason: resolver.ReasonConstrained}}, plan.Skipped)

	top, _ := plan.TopStep()
	assert.Equal(t, "/out/libde265;/out/x265", value(t, top, "CMAKE_PREFIX_PATH"))
	assert.Equal(t, "OFF", value(t, top, "ENABLE_MULTITHREADING_SUPPORT"))
	assert.Equal(t, "/emsdk/Emscripten.cmake", value(t, top, "CMAKE_TOOLCHAIN_FILE"))

	de265, _ := plan.Graph.Step("libde265")
	assert.Equal(t, domain.ToolCompile, de265.Tool)
	assert.NotEmpty(t, de265.Sources)
	require.Len(t, de265.Templates, 1)

	x265, _ := plan.Graph.Step("x265")
	assert.Equal(t, domain.ToolCompile, x265.Tool)
	assert.Equal(t, "OFF", value(t, x265, "ENABLE_ASSEMBLY"))
}

func TestResolve_KvazaarConstrainedDisablesAssembly(t *testing.T) {
	plan, err := resolver.New().Resolve(manifest(t), options("wasm32-unknown-emscripten", domain.BackendKvazaar))
	require.NoError(t, err)

	kvazaar, ok := plan.Graph.Step("kvazaar")
	require.True(t, ok)
	assert.Equal(t, domain.ToolAutotools, kvazaar.Tool)
	assert.Equal(t, "OFF", value(t, kvazaar, "asm"))
}

func TestResolve_UnknownBackend(t *testing.T) {
	_, err := resolver.New().Resolve(manifest(t), options("x86_64-unknown-linux-gnu", domain.EncoderBackend(0)))
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
}

func TestResolve_MissingRecipe(t *testing.T) {
	m := manifest(t)
	delete(m.Recipes, "x265")

	_, err := resolver.New().Resolve(m, options("x86_64-unknown-linux-gnu", domain.BackendX265))
	assert.ErrorIs(t, err, domain.ErrMissingRecipe)
}

func TestAdapt(t *testing.T) {
	flags := domain.TargetFlags{
		Display:  &domain.FlagRef{Key: "ENABLE_SDL"},
		Assembly: &domain.FlagRef{Key: "DISABLE_SSE", Invert: true},
		Threads:  &domain.FlagRef{Key: "USE_THREADS"},
	}

	host := domain.NewConfigMap().SetBool("ENABLE_SDL", true).SetString("KEEP", "1")
	resolver.Adapt(host, flags, domain.ParseTarget("x86_64-unknown-linux-gnu"))
	assert.Equal(t, []string{"ENABLE_SDL", "KEEP"}, host.Keys())
	sdl, _ := host.Get("ENABLE_SDL")
	assert.False(t, sdl.Bool)

	wasm := domain.NewConfigMap().SetString("KEEP", "1")
	resolver.Adapt(wasm, flags, domain.ParseTarget("wasm32-unknown-emscripten"))
	assert.Equal(t, []string{"KEEP", "ENABLE_SDL", "DISABLE_SSE", "USE_THREADS"}, wasm.Keys())
	sse, _ := wasm.Get("DISABLE_SSE")
	assert.True(t, sse.Bool, "inverted assembly flag is set to disable")
	threads, _ := wasm.Get("USE_THREADS")
	assert.False(t, threads.Bool)
}
