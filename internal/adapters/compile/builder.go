// Package compile builds a library directly from an explicit source list.
// It serves targets where the projects' own build descriptions do not apply.
package compile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/heifsys/internal/adapters/buildtool"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// Compiler is the default C/C++ compiler driver.
	Compiler = "emcc"
	// Archiver is the default static archiver.
	Archiver = "emar"
)

var _ ports.NativeBuilder = (*Builder)(nil)

// Builder implements ports.NativeBuilder by compiling each source to an object
// and archiving the objects into one static library.
type Builder struct {
	executor ports.Executor
	compiler string
	archiver string
}

// New creates a Builder using the emscripten compiler and archiver.
func New(executor ports.Executor) *Builder {
	return &Builder{
		executor: executor,
		compiler: Compiler,
		archiver: Archiver,
	}
}

// Build renders templates, compiles, archives, then installs public headers
// and a package description.
func (b *Builder) Build(ctx context.Context, step *domain.Step, stdout, stderr io.Writer) (domain.BuildOutput, error) {
	if len(step.Sources) == 0 {
		return domain.BuildOutput{}, buildtool.Failure(step, "no sources to compile")
	}
	if err := buildtool.Prepare(step); err != nil {
		return domain.BuildOutput{}, err
	}

	for _, tmpl := range step.Templates {
		src := filepath.Join(step.SourceDir, tmpl.Source)
		dst := filepath.Join(step.OutputDir, tmpl.Output)
		if err := RenderTemplate(src, dst, tmpl.Values); err != nil {
			return domain.BuildOutput{}, zerr.With(err, "step", step.Name.String())
		}
	}

	out := step.Output()
	if err := os.MkdirAll(out.LibDir(), 0o750); err != nil {
		return domain.BuildOutput{}, zerr.With(zerr.Wrap(err, "failed to create lib dir"), "step", step.Name.String())
	}

	if err := buildtool.RunAll(ctx, b.executor, step, b.Commands(step), stdout, stderr); err != nil {
		return domain.BuildOutput{}, err
	}

	if err := installHeaders(step); err != nil {
		return domain.BuildOutput{}, err
	}
	if _, err := WritePackageDescription(step); err != nil {
		return domain.BuildOutput{}, zerr.With(err, "step", step.Name.String())
	}
	return out, nil
}

// Commands returns one compile invocation per source followed by the archive step.
func (b *Builder) Commands(step *domain.Step) []*domain.Command {
	flags := b.flags(step)
	objects := make([]string, 0, len(step.Sources))
	cmds := make([]*domain.Command, 0, len(step.Sources)+1)

	for i, src := range step.Sources {
		obj := objectPath(step, i, src)
		objects = append(objects, obj)

		args := append([]string{b.compiler, "-c"}, flags...)
		args = append(args, "-o", obj, filepath.Join(step.SourceDir, src))
		cmds = append(cmds, &domain.Command{Args: args, Dir: step.SourceDir})
	}

	archive := filepath.Join(step.Output().LibDir(), step.Target.StaticLibrary(libraryName(step)))
	args := append([]string{b.archiver, "rcs", archive}, objects...)
	return append(cmds, &domain.Command{Args: args, Dir: buildtool.BuildDir(step)})
}

func (b *Builder) flags(step *domain.Step) []string {
	flags := []string{"-O2"}
	flags = append(flags, step.Args...)

	for k, v := range step.Config.All() {
		flags = append(flags, defineFlag(k, v))
	}

	for _, dir := range step.IncludeDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(step.SourceDir, dir)
		}
		flags = append(flags, "-I"+dir)
	}
	return append(flags, "-I"+step.Output().IncludeDir())
}

// defineFlag renders one macro. Booleans become 1 or 0, empty strings a bare define.
func defineFlag(key string, v domain.Value) string {
	switch {
	case v.Kind == domain.KindBool && v.Bool:
		return "-D" + key + "=1"
	case v.Kind == domain.KindBool:
		return "-D" + key + "=0"
	case v.Str == "":
		return "-D" + key
	default:
		return "-D" + key + "=" + v.Str
	}
}

func objectPath(step *domain.Step, i int, src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(buildtool.BuildDir(step), fmt.Sprintf("%03d_%s.o", i, base))
}

func libraryName(step *domain.Step) string {
	if step.Library != "" {
		return step.Library
	}
	return strings.TrimPrefix(step.Name.String(), "lib")
}

// installHeaders copies the public headers, keeping their path relative to
// the source dir, into <out>/include.
func installHeaders(step *domain.Step) error {
	includeDir := step.Output().IncludeDir()
	for _, header := range step.Headers {
		src := filepath.Join(step.SourceDir, header)
		dst := filepath.Join(includeDir, header)

		data, err := os.ReadFile(src)
		if err != nil {
			return zerr.With(buildtool.Failure(step, "missing public header"), "path", src)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create include dir"), "path", dst)
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to install header"), "path", dst)
		}
	}
	return nil
}
