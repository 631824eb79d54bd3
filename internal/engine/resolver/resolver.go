// Package resolver turns the dependency manifest into an ordered build plan.
package resolver

import (
	"path/filepath"
	"strings"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// Recipe names the resolver knows about.
const (
	Libde265 = "libde265"
	Libwebp  = "libwebp"
	X265     = "x265"
	Kvazaar  = "kvazaar"
	Libheif  = "libheif"
)

// ReasonConstrained is recorded for steps left out on constrained targets.
const ReasonConstrained = "not built for constrained targets"

// Resolver orders and parameterizes the vendored build.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve builds the plan libde265, libwebp, the selected encoder, libheif.
// libwebp is skipped on constrained targets. The top-level step depends on
// every other step and is told where each of them is installed.
func (r *Resolver) Resolve(m *domain.Manifest, opts domain.BuildOptions) (*domain.Plan, error) {
	encoder, err := encoderRecipe(opts.Backend)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		Target:  opts.Target,
		Backend: opts.Backend,
		Graph:   domain.NewGraph(),
		Top:     Libheif,
	}

	var prior []string
	libraries := make(map[string]domain.BuildOutput)
	libraryFiles := make(map[string]string)

	for _, name := range []string{Libde265, Libwebp, encoder, Libheif} {
		recipe, err := m.Recipe(name)
		if err != nil {
			return nil, err
		}
		if name == Libwebp && opts.Target.Constrained {
			plan.Skipped = append(plan.Skipped, domain.SkippedStep{Name: name, Reason: ReasonConstrained})
			continue
		}

		var deps []string
		if name == Libheif {
			deps = prior
		}
		step := newStep(recipe, opts, deps)

		if name == Libheif {
			topLevelDefines(step.Config, prior, libraries, libraryFiles, opts.Backend)
		}
		step.Config = step.Config.Freeze()

		if err := plan.Graph.AddStep(step); err != nil {
			return nil, err
		}
		prior = append(prior, name)
		libraries[name] = step.Output()
		libraryFiles[name] = filepath.Join(step.Output().LibDir(), opts.Target.StaticLibrary(libraryBase(recipe)))
	}

	if err := plan.Graph.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func encoderRecipe(b domain.EncoderBackend) (string, error) {
	switch b {
	case domain.BackendX265:
		return X265, nil
	case domain.BackendKvazaar:
		return Kvazaar, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownBackend, "cannot resolve encoder"), "backend", b.String())
	}
}

// newStep creates the step for recipe with a writable config holding the
// baseline defines and the target overrides. The caller freezes it.
func newStep(recipe *domain.Recipe, opts domain.BuildOptions, deps []string) *domain.Step {
	source := recipe.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(opts.SourceRoot, source)
	}

	tool := recipe.Tool
	baseline := recipe.Defines
	if opts.Target.Constrained && recipe.Compile != nil {
		tool = domain.ToolCompile
		baseline = recipe.Compile.Defines
	}

	step := domain.NewStep(recipe.Name, tool, nil, deps...)
	step.Target = opts.Target
	step.SourceDir = source
	step.OutputDir = filepath.Join(opts.OutputRoot, recipe.Name)
	step.Library = recipe.Library
	step.Args = recipe.Args

	cfg := domain.NewConfigMap().Merge(baseline)
	Adapt(cfg, recipe.Flags, opts.Target)

	if tool == domain.ToolCompile {
		c := recipe.Compile
		step.Sources = c.Sources
		step.IncludeDirs = c.IncludeDirs
		step.Headers = c.Headers
		step.Templates = c.Templates
		step.Args = nil
	}
	if tool == domain.ToolCMake && opts.Target.Constrained && opts.ToolchainFile != "" {
		cfg.SetPath("CMAKE_TOOLCHAIN_FILE", opts.ToolchainFile)
	}

	step.Config = cfg
	return step
}

// topLevelDefines points the top-level build at the outputs of the prior steps.
func topLevelDefines(
	cfg *domain.ConfigMap,
	prior []string,
	outputs map[string]domain.BuildOutput,
	files map[string]string,
	backend domain.EncoderBackend,
) {
	roots := make([]string, 0, len(prior))
	for _, name := range prior {
		roots = append(roots, outputs[name].Root)
	}
	cfg.SetString("CMAKE_PREFIX_PATH", strings.Join(roots, ";"))

	cfg.SetPath("LIBDE265_INCLUDE_DIR", outputs[Libde265].IncludeDir())
	cfg.SetPath("LIBDE265_LIBRARY", files[Libde265])

	BackendDefines(cfg, backend, outputs, files)
}

// BackendDefines writes the encoder selection. Exactly one encoder is enabled.
func BackendDefines(
	cfg *domain.ConfigMap,
	backend domain.EncoderBackend,
	outputs map[string]domain.BuildOutput,
	files map[string]string,
) {
	switch backend {
	case domain.BackendX265:
		cfg.SetBool("WITH_X265", true).
			SetBool("WITH_KVAZAAR", false).
			SetBool("WITH_KVAZAAR_PLUGIN", false).
			SetPath("X265_INCLUDE_DIR", outputs[X265].IncludeDir()).
			SetPath("X265_LIBRARY", files[X265])
	case domain.BackendKvazaar:
		cfg.SetBool("WITH_X265", false).
			SetBool("WITH_KVAZAAR", true).
			SetBool("WITH_KVAZAAR_PLUGIN", true).
			SetPath("KVAZAAR_INCLUDE_DIR", outputs[Kvazaar].IncludeDir()).
			SetPath("KVAZAAR_LIBRARY", files[Kvazaar])
	}
}

func libraryBase(recipe *domain.Recipe) string {
	if recipe.Library != "" {
		return recipe.Library
	}
	return strings.TrimPrefix(recipe.Name, "lib")
}
