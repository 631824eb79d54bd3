package app

import (
	"path/filepath"

	"go.trai.ch/heifsys/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// RunOptions are the parsed settings of one invocation.
type RunOptions struct {
	Docs          bool
	Strategy      domain.Strategy
	Target        domain.Target
	Backend       domain.EncoderBackend
	SourceDir     string
	OutDir        string
	Manifest      string
	ToolchainFile string
	Force         bool
	Verbose       bool
	Progress      detector.OutputMode
}

// ParseOptions validates s. Strategy and backend selectors are parsed even
// when unused so a typo never goes unnoticed. A docs build parses nothing.
func ParseOptions(s *config.Settings) (RunOptions, error) {
	if s.Docs {
		return RunOptions{Docs: true, OutDir: s.OutDir}, nil
	}

	strategy, err := domain.ParseStrategy(s.Strategy)
	if err != nil {
		return RunOptions{}, err
	}
	backend, err := domain.ParseBackend(s.Backend)
	if err != nil {
		return RunOptions{}, err
	}

	return RunOptions{
		Docs:          s.Docs,
		Strategy:      strategy,
		Target:        domain.ParseTarget(s.Target),
		Backend:       backend,
		SourceDir:     s.SourceDir,
		OutDir:        s.OutDir,
		Manifest:      s.Manifest,
		ToolchainFile: s.ToolchainFile,
	}, nil
}

func (o RunOptions) buildOptions() (domain.BuildOptions, error) {
	src, err := filepath.Abs(o.SourceDir)
	if err != nil {
		return domain.BuildOptions{}, zerr.With(zerr.Wrap(err, "failed to resolve source root"), "path", o.SourceDir)
	}
	out, err := filepath.Abs(o.OutDir)
	if err != nil {
		return domain.BuildOptions{}, zerr.With(zerr.Wrap(err, "failed to resolve output root"), "path", o.OutDir)
	}

	toolchain := o.ToolchainFile
	if toolchain != "" {
		if toolchain, err = filepath.Abs(toolchain); err != nil {
			return domain.BuildOptions{}, zerr.With(zerr.Wrap(err, "failed to resolve toolchain file"), "path", o.ToolchainFile)
		}
	}

	return domain.BuildOptions{
		Target:        o.Target,
		Backend:       o.Backend,
		SourceRoot:    src,
		OutputRoot:    out,
		ToolchainFile: toolchain,
	}, nil
}
