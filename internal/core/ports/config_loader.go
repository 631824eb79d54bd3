package ports

import "go.trai.ch/heifsys/internal/core/domain"

// ManifestLoader defines the interface for loading the dependency manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path. An empty path selects the built-in manifest.
	Load(path string) (*domain.Manifest, error)
}
