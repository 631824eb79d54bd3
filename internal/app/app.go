// Package app implements the application layer for heifsys.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/heifsys/internal/adapters/detector"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/heifsys/internal/engine/collector"
	"go.trai.ch/heifsys/internal/engine/orchestrator"
	"go.trai.ch/heifsys/internal/engine/resolver"
	"go.trai.ch/heifsys/internal/tui"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ArtifactsFile is written to the output root after every build.
const ArtifactsFile = "artifacts.json"

// App represents the main application logic.
type App struct {
	loader       ports.ManifestLoader
	resolver     *resolver.Resolver
	orchestrator *orchestrator.Orchestrator
	prober       ports.Prober
	bindings     ports.BindingGenerator
	openStore    ports.StoreFactory
	telemetry    ports.Telemetry
	progress     tui.TapeSource
	logger       ports.Logger
	teaOptions   []tea.ProgramOption
	progressOut  io.Writer
	toolOut      io.Writer
}

// New creates a new App instance. progress is the feed the telemetry writes to.
func New(
	loader ports.ManifestLoader,
	res *resolver.Resolver,
	orch *orchestrator.Orchestrator,
	prober ports.Prober,
	bindings ports.BindingGenerator,
	openStore ports.StoreFactory,
	telemetry ports.Telemetry,
	progress tui.TapeSource,
	log ports.Logger,
) *App {
	return &App{
		loader:       loader,
		resolver:     res,
		orchestrator: orch,
		prober:       prober,
		bindings:     bindings,
		openStore:    openStore,
		telemetry:    telemetry,
		progress:     progress,
		logger:       log,
		progressOut:  os.Stderr,
		toolOut:      os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects plain progress and verbose tool output.
func (a *App) WithOutput(progress, tools io.Writer) *App {
	a.progressOut = progress
	a.toolOut = tools
	return a
}

// Build acquires libheif with the selected strategy, generates the bindings
// and writes the artifact set to the output root. It returns nil artifacts
// when the docs short-circuit is active.
func (a *App) Build(ctx context.Context, opts RunOptions) (*domain.Artifacts, error) {
	if opts.Docs {
		a.logger.Info("docs build: native dependencies skipped")
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.render(gctx, opts.Progress)
	})

	var artifacts *domain.Artifacts
	g.Go(func() error {
		// Closing the telemetry ends the progress feed and with it the renderer.
		defer func() { _ = a.telemetry.Close() }()

		var err error
		artifacts, err = a.build(gctx, opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (a *App) render(ctx context.Context, mode detector.OutputMode) error {
	switch mode {
	case detector.ModeTUI:
		model := tui.NewModel(a.progress)
		teaOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		if _, err := tea.NewProgram(model, teaOpts...).Run(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return zerr.Wrap(err, "progress display failed")
		}
		if model.Interrupted() {
			return domain.ErrInterrupted
		}
		return nil
	case detector.ModeNone:
		return tui.Plain(io.Discard, a.progress)
	default:
		return tui.Plain(a.progressOut, a.progress)
	}
}

func (a *App) build(ctx context.Context, opts RunOptions) (*domain.Artifacts, error) {
	m, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	outRoot, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve output root"), "path", opts.OutDir)
	}

	var artifacts domain.Artifacts
	switch opts.Strategy {
	case domain.StrategyVendored:
		artifacts, err = a.vendored(ctx, m, opts, outRoot)
		artifacts.Backend = opts.Backend.String()
	case domain.StrategySystem:
		artifacts, err = a.system(ctx, m)
	default:
		err = zerr.With(zerr.Wrap(domain.ErrUnknownStrategy, "cannot acquire libheif"), "strategy", opts.Strategy.String())
	}
	if err != nil {
		return nil, err
	}
	artifacts.Strategy = opts.Strategy.String()
	artifacts.Target = opts.Target.Triple

	if err := a.generateBindings(ctx, m.Bindings, &artifacts, opts.SourceDir, outRoot); err != nil {
		return nil, err
	}

	if err := writeArtifacts(outRoot, &artifacts); err != nil {
		return nil, err
	}
	a.logger.Info("artifacts written to " + filepath.Join(outRoot, ArtifactsFile))
	return &artifacts, nil
}

// vendored builds the dependency graph and probes the installed libheif
// against the build outputs only.
func (a *App) vendored(ctx context.Context, m *domain.Manifest, opts RunOptions, outRoot string) (domain.Artifacts, error) {
	plan, err := a.resolve(m, opts)
	if err != nil {
		return domain.Artifacts{}, err
	}
	for _, s := range plan.Skipped {
		a.logger.Info(fmt.Sprintf("skipping %s: %s", s.Name, s.Reason))
	}

	store, err := a.openStore(outRoot)
	if err != nil {
		return domain.Artifacts{}, zerr.Wrap(err, "failed to open build info store")
	}

	runOpts := orchestrator.Options{Store: store, Force: opts.Force}
	if opts.Verbose {
		runOpts.Output = a.toolOut
	}
	outputs, err := a.orchestrator.Run(ctx, plan, runOpts)
	if err != nil {
		return domain.Artifacts{}, err
	}

	search := make([]string, 0, len(outputs))
	for _, out := range outputs {
		search = append(search, out.PkgConfigDir())
	}
	lib, err := a.probe(ctx, domain.ProbeRequest{Name: resolver.Libheif, SearchPaths: search, Static: true})
	if err != nil {
		return domain.Artifacts{}, err
	}
	a.echo(lib)

	return collector.Collect(outputs, lib), nil
}

// system probes every required library concurrently. libheif provides the
// include set, the others only add link flags.
func (a *App) system(ctx context.Context, m *domain.Manifest) (domain.Artifacts, error) {
	libs := make([]*domain.LibraryInfo, len(m.System))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range m.System {
		g.Go(func() error {
			lib, err := a.probe(gctx, domain.ProbeRequest{Name: req.Name, MinVersion: req.MinVersion})
			libs[i] = lib
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Artifacts{}, err
	}
	if len(libs) == 0 {
		return domain.Artifacts{}, nil
	}

	primary := 0
	for i, req := range m.System {
		if req.Name == resolver.Libheif {
			primary = i
			break
		}
	}
	a.echo(libs[primary])

	others := make([]*domain.LibraryInfo, 0, len(libs)-1)
	for i, lib := range libs {
		if i != primary {
			others = append(others, lib)
		}
	}
	return collector.AppendLinks(collector.Collect(nil, libs[primary]), others...), nil
}

func (a *App) probe(ctx context.Context, req domain.ProbeRequest) (lib *domain.LibraryInfo, err error) {
	ctx, vertex := a.telemetry.Record(ctx, "probe "+req.Name)
	defer func() { vertex.Complete(err) }()

	return a.prober.Probe(ctx, req)
}

func (a *App) echo(lib *domain.LibraryInfo) {
	a.logger.Warn(fmt.Sprintf("library: %s %s include=%v link=%v",
		lib.Name, lib.Version, lib.IncludePaths, lib.LinkArgs))
}

func (a *App) generateBindings(
	ctx context.Context,
	spec domain.BindingSpec,
	artifacts *domain.Artifacts,
	sourceDir, outRoot string,
) (err error) {
	if spec.Header == "" || spec.Output == "" {
		return nil
	}

	ctx, vertex := a.telemetry.Record(ctx, "bindings")
	defer func() { vertex.Complete(err) }()

	header := spec.Header
	if !filepath.IsAbs(header) {
		header = filepath.Join(sourceDir, header)
	}

	src, err := a.bindings.Generate(ctx, domain.BindingRequest{
		Header:       header,
		IncludeDirs:  artifacts.IncludeDirs,
		AllowPattern: spec.Allow,
		Generator:    spec.Generator,
		ExtraArgs:    spec.Args,
		ClangArgs:    spec.ClangArgs,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(outRoot, spec.Output)
	if err := writeFile(path, src.Content); err != nil {
		return err
	}
	artifacts.Bindings = path
	return nil
}

// Plan resolves the vendored build plan without running it.
func (a *App) Plan(opts RunOptions) (*domain.Plan, error) {
	m, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	return a.resolve(m, opts)
}

func (a *App) resolve(m *domain.Manifest, opts RunOptions) (*domain.Plan, error) {
	buildOpts, err := opts.buildOptions()
	if err != nil {
		return nil, err
	}
	plan, err := a.resolver.Resolve(m, buildOpts)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve build plan")
	}
	return plan, nil
}

// Probe looks up one installed library with the default search path.
func (a *App) Probe(ctx context.Context, name, minVersion string) (*domain.LibraryInfo, error) {
	return a.prober.Probe(ctx, domain.ProbeRequest{Name: name, MinVersion: minVersion})
}

func writeArtifacts(outRoot string, artifacts *domain.Artifacts) error {
	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode artifacts")
	}
	return writeFile(filepath.Join(outRoot, ArtifactsFile), append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}
