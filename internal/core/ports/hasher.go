package ports

import "go.trai.ch/heifsys/internal/core/domain"

// Hasher defines the interface for fingerprinting steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint hashes everything that affects the step's output.
	Fingerprint(step *domain.Step) (string, error)
}
