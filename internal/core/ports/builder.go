package ports

import (
	"context"
	"io"

	"go.trai.ch/heifsys/internal/core/domain"
)

// NativeBuilder builds one step with a specific build tool.
//
//go:generate go run go.uber.org/mock/mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type NativeBuilder interface {
	// Build compiles and installs the step into its output dir.
	// Tool output is streamed to stdout and stderr.
	Build(ctx context.Context, step *domain.Step, stdout, stderr io.Writer) (domain.BuildOutput, error)
}

// BuilderSet maps a build tool to the builder that drives it.
type BuilderSet map[domain.Tool]NativeBuilder
