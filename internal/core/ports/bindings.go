package ports

import (
	"context"

	"go.trai.ch/heifsys/internal/core/domain"
)

// BindingGenerator produces binding source for a C header.
//
//go:generate go run go.uber.org/mock/mockgen -source=bindings.go -destination=mocks/mock_bindings.go -package=mocks
type BindingGenerator interface {
	Generate(ctx context.Context, req domain.BindingRequest) (domain.GeneratedSource, error)
}
