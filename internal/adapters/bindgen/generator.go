// Package bindgen runs an external binding generator over a C header.
package bindgen

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultCommand is used when a request names no generator.
const DefaultCommand = "bindgen"

var _ ports.BindingGenerator = (*Generator)(nil)

// Generator implements ports.BindingGenerator. The generated source is the
// generator's standard output.
type Generator struct {
	executor ports.Executor
}

// New creates a Generator.
func New(executor ports.Executor) *Generator {
	return &Generator{executor: executor}
}

// Generate runs the generator and returns what it printed.
func (g *Generator) Generate(ctx context.Context, req domain.BindingRequest) (domain.GeneratedSource, error) {
	if req.Header == "" {
		return domain.GeneratedSource{}, zerr.Wrap(domain.ErrBindingGenerationFailure, "no header given")
	}

	var stdout, stderr bytes.Buffer
	if err := g.executor.Execute(ctx, &domain.Command{Args: Args(req)}, &stdout, &stderr); err != nil {
		wrapped := zerr.Wrap(errors.Join(domain.ErrBindingGenerationFailure, err), "binding generator failed")
		wrapped = zerr.With(wrapped, "header", req.Header)
		return domain.GeneratedSource{}, zerr.With(wrapped, "stderr", strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		err := zerr.Wrap(domain.ErrBindingGenerationFailure, "binding generator produced no output")
		return domain.GeneratedSource{}, zerr.With(err, "header", req.Header)
	}

	return domain.GeneratedSource{Content: stdout.Bytes()}, nil
}

// Args returns the generator command line for req.
func Args(req domain.BindingRequest) []string {
	args := []string{DefaultCommand}
	if len(req.Generator) > 0 {
		args = append([]string(nil), req.Generator...)
	}

	args = append(args, req.Header)
	if req.AllowPattern != "" {
		args = append(args, "--allowlist-function", req.AllowPattern, "--allowlist-type", req.AllowPattern)
	}
	args = append(args, req.ExtraArgs...)

	args = append(args, "--")
	args = append(args, req.ClangArgs...)
	for _, dir := range req.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	return args
}
