// Package detector picks how build progress is rendered.
package detector

import (
	"os"

	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the progress rendering mode.
type OutputMode int

const (
	// ModeAuto detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModePlain prints one line per step status change.
	ModePlain
	// ModeNone renders nothing.
	ModeNone
)

// String returns the flag value selecting m.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeNone:
		return "none"
	default:
		return "auto"
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DetectEnvironment returns the recommended mode for an output that is or is
// not a terminal. CI environments always get plain output.
func DetectEnvironment(isTTY bool, env envscope.Env) OutputMode {
	ci, _ := env.Lookup("CI")
	if !isTTY || ci == "true" || ci == "1" {
		return ModePlain
	}
	return ModeTUI
}

// ResolveMode applies the user's flag to the detected mode.
// userFlag is one of "auto", "tui", "plain", "ci", "none" or empty.
func ResolveMode(detected OutputMode, userFlag string) (OutputMode, error) {
	switch userFlag {
	case "", "auto":
		return detected, nil
	case "tui":
		return ModeTUI, nil
	case "plain", "ci":
		return ModePlain, nil
	case "none":
		return ModeNone, nil
	default:
		return detected, zerr.With(zerr.Wrap(domain.ErrUnknownProgressMode, "cannot parse progress mode"), "progress", userFlag)
	}
}
