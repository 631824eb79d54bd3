package cmake_test

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/adapters/cmake"
	"go.trai.ch/heifsys/internal/adapters/logger"
	"go.trai.ch/heifsys/internal/adapters/shell"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newStep(t *testing.T, src string, config *domain.ConfigMap) *domain.Step {
	t.Helper()
	step := domain.NewStep("libde265", domain.ToolCMake, config)
	step.SourceDir = src
	step.OutputDir = filepath.Join(t.TempDir(), "libde265")
	step.Target = domain.ParseTarget("x86_64-unknown-linux-gnu")
	return step
}

func sourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, cmake.ListsFile), []byte("project(x)"), 0o600))
	return src
}

func TestBuilder_ConfigureArgs(t *testing.T) {
	config := domain.NewConfigMap().
		SetBool("ENABLE_SDL", false).
		SetString("BUILD_SHARED_LIBS", "OFF").
		SetPath("LIBDE265_INCLUDE_DIR", "/out/libde265/include")
	step := newStep(t, "/src/libde265", config)
	step.Args = []string{"--preset=release-noplugins"}

	b := cmake.New(nil)
	args := b.ConfigureArgs(step)

	assert.Equal(t, []string{
		"cmake", "-S", "/src/libde265", "-B", filepath.Join(step.OutputDir, "build"),
		"--preset=release-noplugins",
		"-DCMAKE_INSTALL_PREFIX:PATH=" + step.OutputDir,
		"-DCMAKE_INSTALL_LIBDIR:STRING=lib",
		"-DCMAKE_BUILD_TYPE:STRING=Release",
		"-DENABLE_SDL:BOOL=OFF",
		"-DBUILD_SHARED_LIBS:STRING=OFF",
		"-DLIBDE265_INCLUDE_DIR:PATH=/out/libde265/include",
	}, args)
}

func TestBuilder_ConfigureArgs_StepOverridesFixedDefines(t *testing.T) {
	step := newStep(t, "/src", domain.NewConfigMap().SetString("CMAKE_BUILD_TYPE", "MinSizeRel"))

	args := cmake.New(nil).ConfigureArgs(step)

	assert.Contains(t, args, "-DCMAKE_BUILD_TYPE:STRING=MinSizeRel")
	assert.NotContains(t, args, "-DCMAKE_BUILD_TYPE:STRING=Release")
}

func TestBuilder_Build_Sequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)

	step := newStep(t, sourceTree(t), nil)
	buildDir := filepath.Join(step.OutputDir, "build")

	var seen [][]string
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			seen = append(seen, cmd.Args)
			return nil
		}).Times(3)

	out, err := cmake.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, step.OutputDir, out.Root)
	assert.Equal(t, "libde265", out.Name)
	require.Len(t, seen, 3)
	assert.Equal(t, []string{"cmake", "-S", step.SourceDir, "-B", buildDir}, seen[0][:5])
	assert.Equal(t, []string{"cmake", "--build", buildDir, "--config", "Release"}, seen[1])
	assert.Equal(t, []string{"cmake", "--install", buildDir, "--config", "Release", "--prefix", step.OutputDir}, seen[2])
	assert.DirExists(t, buildDir)
}

func TestBuilder_Build_MissingListsFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)

	step := newStep(t, t.TempDir(), nil)

	_, err := cmake.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildToolFailure)
	assert.NoDirExists(t, step.OutputDir)
}

func TestBuilder_Build_ToolFailureStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockExec := mocks.NewMockExecutor(ctrl)

	step := newStep(t, sourceTree(t), nil)
	exitErr := errors.New("exit status 1")
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(exitErr).Times(1)

	_, err := cmake.New(mockExec).Build(context.Background(), step, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildToolFailure)
	assert.ErrorIs(t, err, exitErr)
}

func TestBuilder_Build_EndToEnd(t *testing.T) {
	if _, err := exec.LookPath("cmake"); err != nil {
		t.Skip("cmake not installed")
	}
	if _, err := exec.LookPath("cc"); err != nil {
		t.Skip("no C compiler installed")
	}

	src, err := filepath.Abs(filepath.Join("testdata", "hello"))
	require.NoError(t, err)

	step := domain.NewStep("hello", domain.ToolCMake, domain.NewConfigMap().SetBool("HELLO_LOUD", true))
	step.SourceDir = src
	step.OutputDir = filepath.Join(t.TempDir(), "hello")
	step.Target = domain.HostTarget()

	log := logger.New()
	log.SetOutput(io.Discard)
	b := cmake.New(shell.NewExecutor(log))

	out, err := b.Build(context.Background(), step, io.Discard, io.Discard)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out.IncludeDir(), "hello.h"))
	assert.FileExists(t, filepath.Join(out.LibDir(), step.Target.StaticLibrary("hello")))
	_, err = os.Stat(filepath.Join(src, "build"))
	assert.True(t, os.IsNotExist(err), "source tree must stay clean")
}
