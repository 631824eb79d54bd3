package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// EncoderBackend selects the HEVC encoder linked into libheif.
// Exactly one backend is active per build; the zero value is invalid.
type EncoderBackend int

const (
	backendInvalid EncoderBackend = iota
	// BackendX265 builds and links x265.
	BackendX265
	// BackendKvazaar builds and links kvazaar.
	BackendKvazaar
)

// ParseBackend parses a backend selector such as "x265" or "kvazaar".
func ParseBackend(s string) (EncoderBackend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x265":
		return BackendX265, nil
	case "kvazaar":
		return BackendKvazaar, nil
	default:
		return backendInvalid, zerr.With(zerr.Wrap(ErrUnknownBackend, "cannot parse encoder backend"), "backend", s)
	}
}

// String returns the step name of the backend.
func (b EncoderBackend) String() string {
	switch b {
	case BackendX265:
		return "x265"
	case BackendKvazaar:
		return "kvazaar"
	default:
		return "invalid"
	}
}

// Valid reports whether b is one of the two known backends.
func (b EncoderBackend) Valid() bool {
	return b == BackendX265 || b == BackendKvazaar
}

// Strategy selects how libheif is acquired.
type Strategy int

const (
	strategyInvalid Strategy = iota
	// StrategySystem locates a pre-built installation with pkg-config.
	StrategySystem
	// StrategyVendored compiles the dependency graph from bundled sources.
	StrategyVendored
)

// ParseStrategy parses "system" or "vendored".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return StrategySystem, nil
	case "vendored", "embedded":
		return StrategyVendored, nil
	default:
		return strategyInvalid, zerr.With(zerr.Wrap(ErrUnknownStrategy, "cannot parse strategy"), "strategy", s)
	}
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategySystem:
		return "system"
	case StrategyVendored:
		return "vendored"
	default:
		return "invalid"
	}
}
