package compile_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/adapters/compile"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newStep(t *testing.T) *domain.Step {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "libde265", "bitstream.cc"), "// bitstream")
	writeFile(t, filepath.Join(src, "libde265", "de265.cc"), "// api")
	writeFile(t, filepath.Join(src, "libde265", "de265.h"), "// header")
	writeFile(t, filepath.Join(src, "libde265", "de265-version.h.in"), "#define V \"@PACKAGE_VERSION@\"\n")

	config := domain.NewConfigMap().
		SetBool("HAVE_SSE4_1", false).
		SetBool("HAVE_POSIX_MEMALIGN", true).
		SetString("NDEBUG", "")
	step := domain.NewStep("libde265", domain.ToolCompile, config)
	step.SourceDir = src
	step.OutputDir = filepath.Join(t.TempDir(), "libde265")
	step.Target = domain.ParseTarget("wasm32-unknown-emscripten")
	step.Sources = []string{"libde265/bitstream.cc", "libde265/de265.cc"}
	step.IncludeDirs = []string{"."}
	step.Headers = []string{"libde265/de265.h"}
	step.Templates = []domain.Template{{
		Source: "libde265/de265-version.h.in",
		Output: "include/libde265/de265-version.h",
		Values: map[string]string{"PACKAGE_VERSION": "1.0.15"},
	}}
	return step
}

func TestBuilder_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)
	step := newStep(t)

	var seen [][]string
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			// The generated header must exist before anything is compiled.
			assert.FileExists(t, filepath.Join(step.OutputDir, "include", "libde265", "de265-version.h"))
			seen = append(seen, cmd.Args)
			return nil
		}).Times(3)

	out, err := compile.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	first := seen[0]
	assert.Equal(t, []string{"emcc", "-c", "-O2"}, first[:3])
	assert.Contains(t, first, "-DHAVE_SSE4_1=0")
	assert.Contains(t, first, "-DHAVE_POSIX_MEMALIGN=1")
	assert.Contains(t, first, "-DNDEBUG")
	assert.Contains(t, first, "-I"+step.SourceDir)
	assert.Contains(t, first, "-I"+out.IncludeDir())
	assert.Equal(t, filepath.Join(step.SourceDir, "libde265", "bitstream.cc"), first[len(first)-1])

	archive := seen[2]
	assert.Equal(t, []string{"emar", "rcs", filepath.Join(out.LibDir(), "libde265.a")}, archive[:3])
	assert.Len(t, archive, 5)

	assert.FileExists(t, filepath.Join(out.IncludeDir(), "libde265", "de265.h"))
	assert.FileExists(t, filepath.Join(out.PkgConfigDir(), "libde265.pc"))
}

func TestWritePackageDescription(t *testing.T) {
	step := newStep(t)

	path, err := compile.WritePackageDescription(step)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pc := string(data)
	assert.Contains(t, pc, "prefix="+step.OutputDir+"\n")
	assert.Contains(t, pc, "Version: 1.0.15\n")
	assert.Contains(t, pc, "Libs: -L${libdir} -lde265\n")

	step.Templates = nil
	step.Library = "x265"
	path, err = compile.WritePackageDescription(step)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Version: "+compile.DefaultVersion+"\n")
	assert.Contains(t, string(data), "-lx265")
}

func TestBuilder_Build_MissingTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)
	step := newStep(t)
	step.Templates[0].Source = "libde265/absent.h.in"

	_, err := compile.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
}

func TestBuilder_Build_CompileFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)
	step := newStep(t)

	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("exit status 1"))

	_, err := compile.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildToolFailure)
	assert.NoFileExists(t, filepath.Join(step.OutputDir, "include", "libde265", "de265.h"))
}

func TestBuilder_Build_NoSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	step := newStep(t)
	step.Sources = nil

	_, err := compile.New(mocks.NewMockExecutor(ctrl)).Build(context.Background(), step, io.Discard, io.Discard)
	assert.ErrorIs(t, err, domain.ErrBuildToolFailure)
}
