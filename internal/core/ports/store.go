package ports

import "go.trai.ch/heifsys/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving step fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a given step name.
	// Returns nil, nil if not found.
	Get(stepName string) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(info domain.BuildInfo) error
}

// StoreFactory opens the store that lives under an output root.
type StoreFactory func(outputRoot string) (BuildInfoStore, error)
