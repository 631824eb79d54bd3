package ports

import (
	"context"

	"go.trai.ch/heifsys/internal/core/domain"
)

// Prober queries the registry of installed native libraries.
//
//go:generate go run go.uber.org/mock/mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type Prober interface {
	// Probe resolves a library by name and optional minimum version.
	//
	// It fails with domain.ErrProbeNotFound when no package description matches
	// and with domain.ErrProbeVersionTooLow when the minimum version is unmet.
	Probe(ctx context.Context, req domain.ProbeRequest) (*domain.LibraryInfo, error)
}
