// Package buildtool holds the pieces shared by the native build tool drivers.
package buildtool

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// BuildDirName is the per-step build tree, created inside the output dir.
const BuildDirName = "build"

// BuildDir returns the build tree of step.
func BuildDir(step *domain.Step) string {
	return filepath.Join(step.OutputDir, BuildDirName)
}

// Failure returns an ErrBuildToolFailure annotated with the step and reason.
func Failure(step *domain.Step, reason string) error {
	err := zerr.Wrap(domain.ErrBuildToolFailure, reason)
	return zerr.With(err, "step", step.Name.String())
}

// Require fails unless <source>/<name> exists.
func Require(step *domain.Step, name string) error {
	path := filepath.Join(step.SourceDir, name)
	if _, err := os.Stat(path); err != nil {
		return zerr.With(Failure(step, "missing build description"), "path", path)
	}
	return nil
}

// Prepare creates the output dir and the build tree.
func Prepare(step *domain.Step) error {
	if err := os.MkdirAll(BuildDir(step), 0o750); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrBuildToolFailure, err), "failed to create build dir"),
			"step", step.Name.String())
	}
	return nil
}

// Run executes cmd and reports a failed process as a build tool failure.
func Run(
	ctx context.Context,
	executor ports.Executor,
	step *domain.Step,
	cmd *domain.Command,
	stdout, stderr io.Writer,
) error {
	if err := executor.Execute(ctx, cmd, stdout, stderr); err != nil {
		wrapped := zerr.Wrap(errors.Join(domain.ErrBuildToolFailure, err), "build tool failed")
		wrapped = zerr.With(wrapped, "step", step.Name.String())
		if len(cmd.Args) > 0 {
			wrapped = zerr.With(wrapped, "tool", filepath.Base(cmd.Args[0]))
		}
		return wrapped
	}
	return nil
}

// RunAll runs cmds in order and stops at the first failure.
func RunAll(
	ctx context.Context,
	executor ports.Executor,
	step *domain.Step,
	cmds []*domain.Command,
	stdout, stderr io.Writer,
) error {
	for _, cmd := range cmds {
		if err := Run(ctx, executor, step, cmd, stdout, stderr); err != nil {
			return err
		}
	}
	return nil
}
