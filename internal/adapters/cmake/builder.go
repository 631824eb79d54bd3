// Package cmake drives the configure/build/install cycle of CMake projects.
package cmake

import (
	"context"
	"io"

	"go.trai.ch/heifsys/internal/adapters/buildtool"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
)

const (
	// Binary is the default cmake executable.
	Binary = "cmake"
	// BuildType is passed to both configure and build.
	BuildType = "Release"
	// ListsFile must exist at the root of a CMake source tree.
	ListsFile = "CMakeLists.txt"
)

var _ ports.NativeBuilder = (*Builder)(nil)

// Builder implements ports.NativeBuilder for CMake projects.
// The build tree always lives under the step's output dir.
type Builder struct {
	executor ports.Executor
	binary   string
}

// New creates a Builder.
func New(executor ports.Executor) *Builder {
	return &Builder{
		executor: executor,
		binary:   Binary,
	}
}

// Build configures, builds and installs step into its output dir.
func (b *Builder) Build(ctx context.Context, step *domain.Step, stdout, stderr io.Writer) (domain.BuildOutput, error) {
	if err := buildtool.Require(step, ListsFile); err != nil {
		return domain.BuildOutput{}, err
	}
	if err := buildtool.Prepare(step); err != nil {
		return domain.BuildOutput{}, err
	}

	if err := buildtool.RunAll(ctx, b.executor, step, b.Commands(step), stdout, stderr); err != nil {
		return domain.BuildOutput{}, err
	}
	return step.Output(), nil
}

// Commands returns the configure, build and install invocations for step.
func (b *Builder) Commands(step *domain.Step) []*domain.Command {
	buildDir := buildtool.BuildDir(step)
	return []*domain.Command{
		{Args: b.ConfigureArgs(step), Dir: step.OutputDir},
		{Args: []string{b.binary, "--build", buildDir, "--config", BuildType}, Dir: step.OutputDir},
		{Args: []string{b.binary, "--install", buildDir, "--config", BuildType, "--prefix", step.OutputDir}, Dir: step.OutputDir},
	}
}

// ConfigureArgs returns the configure command line of step.
// Step defines follow the fixed ones in the step's config order, so a step
// may override any of them.
func (b *Builder) ConfigureArgs(step *domain.Step) []string {
	args := []string{b.binary, "-S", step.SourceDir, "-B", buildtool.BuildDir(step)}
	args = append(args, step.Args...)

	fixed := domain.NewConfigMap().
		SetPath("CMAKE_INSTALL_PREFIX", step.OutputDir).
		SetString("CMAKE_INSTALL_LIBDIR", "lib").
		SetString("CMAKE_BUILD_TYPE", BuildType).
		Merge(step.Config)

	return append(args, definesArgs(fixed)...)
}

func definesArgs(m *domain.ConfigMap) []string {
	args := make([]string, 0, m.Len())
	for k, v := range m.All() {
		args = append(args, "-D"+k+":"+cacheType(v)+"="+v.String())
	}
	return args
}

func cacheType(v domain.Value) string {
	switch v.Kind {
	case domain.KindBool:
		return "BOOL"
	case domain.KindPath:
		return "PATH"
	default:
		return "STRING"
	}
}
