// Package autotools drives configure, make and make install.
package autotools

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"strconv"

	"go.trai.ch/heifsys/internal/adapters/buildtool"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
)

// ConfigureScript must exist at the root of an autotools source tree.
const ConfigureScript = "configure"

var _ ports.NativeBuilder = (*Builder)(nil)

// crossTools replaces the host toolchain on constrained targets.
var crossTools = map[string]string{
	"CC":     "emcc",
	"CXX":    "em++",
	"AR":     "emar",
	"RANLIB": "emranlib",
}

// Builder implements ports.NativeBuilder for autotools projects.
type Builder struct {
	executor ports.Executor
	make     string
	jobs     int
}

// New creates a Builder running make with one job per CPU.
func New(executor ports.Executor) *Builder {
	return &Builder{
		executor: executor,
		make:     "make",
		jobs:     runtime.NumCPU(),
	}
}

// Build runs configure out of tree, then make and make install.
func (b *Builder) Build(ctx context.Context, step *domain.Step, stdout, stderr io.Writer) (domain.BuildOutput, error) {
	if err := buildtool.Require(step, ConfigureScript); err != nil {
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

// Commands returns the configure, make and make install invocations for step.
func (b *Builder) Commands(step *domain.Step) []*domain.Command {
	dir := buildtool.BuildDir(step)

	var env map[string]string
	if step.Target.Constrained {
		env = crossTools
	}

	return []*domain.Command{
		{Args: b.ConfigureArgs(step), Dir: dir, Env: env},
		{Args: []string{b.make, "-j" + strconv.Itoa(b.jobs)}, Dir: dir, Env: env},
		{Args: []string{b.make, "install"}, Dir: dir, Env: env},
	}
}

// ConfigureArgs returns the configure command line of step.
// Boolean entries become --enable-<key> or --disable-<key>, the rest --<key>=<value>.
func (b *Builder) ConfigureArgs(step *domain.Step) []string {
	args := []string{filepath.Join(step.SourceDir, ConfigureScript), "--prefix=" + step.OutputDir}
	if step.Target.Constrained {
		args = append(args, "--host="+step.Target.Triple)
	}

	for k, v := range step.Config.All() {
		if v.Kind == domain.KindBool {
			if v.Bool {
				args = append(args, "--enable-"+k)
			} else {
				args = append(args, "--disable-"+k)
			}
			continue
		}
		args = append(args, "--"+k+"="+v.Str)
	}
	return append(args, step.Args...)
}
