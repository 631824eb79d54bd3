// Package pkgconfig implements the library probe on top of the pkg-config tool.
package pkgconfig

import (
	"bytes"
	"context"
	"os"
	"strings"

	"go.trai.ch/heifsys/internal/adapters/envscope"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// LibDirVar replaces pkg-config's default search path.
	LibDirVar = "PKG_CONFIG_LIBDIR"
	// PathVar is prepended to pkg-config's search path.
	PathVar = "PKG_CONFIG_PATH"

	defaultBinary = "pkg-config"
)

var _ ports.Prober = (*Prober)(nil)

// Prober implements ports.Prober by running pkg-config.
// Every call works on its own overlay of the base environment, so concurrent
// probes never observe each other's search paths.
type Prober struct {
	executor ports.Executor
	base     envscope.Env
	binary   string
}

// New creates a Prober. A nil base reads the process environment.
func New(executor ports.Executor, base envscope.Env) *Prober {
	if base == nil {
		base = envscope.Process{}
	}
	binary := defaultBinary
	if v, ok := base.Lookup("PKG_CONFIG"); ok && v != "" {
		binary = v
	}
	return &Prober{
		executor: executor,
		base:     base,
		binary:   binary,
	}
}

// Probe resolves req, with static linkage when req.Static is set.
// With search paths, those directories are the only source of package descriptions.
func (p *Prober) Probe(ctx context.Context, req domain.ProbeRequest) (*domain.LibraryInfo, error) {
	guard := envscope.NewGuard(envscope.NewOverlay(p.base))
	if len(req.SearchPaths) == 0 {
		return p.query(ctx, guard.Env(), req, false)
	}

	joined := strings.Join(req.SearchPaths, string(os.PathListSeparator))
	return envscope.WithScopedVar(guard, LibDirVar, joined, func(env envscope.Env) (*domain.LibraryInfo, error) {
		return p.query(ctx, env, req, true)
	})
}

func (p *Prober) query(
	ctx context.Context,
	env envscope.Env,
	req domain.ProbeRequest,
	isolated bool,
) (*domain.LibraryInfo, error) {
	version, stderr, err := p.run(ctx, env, isolated, "--modversion", req.Name)
	if err != nil {
		return nil, notFound(req, stderr)
	}

	if req.MinVersion != "" && !AtLeast(version, req.MinVersion) {
		err := zerr.Wrap(domain.ErrProbeVersionTooLow, "installed library is too old")
		err = zerr.With(err, "library", req.Name)
		err = zerr.With(err, "version", version)
		return nil, zerr.With(err, "min_version", req.MinVersion)
	}

	var linkage []string
	if req.Static {
		linkage = []string{"--static"}
	}
	cflags, stderr, err := p.run(ctx, env, isolated, append(linkage, "--cflags-only-I", req.Name)...)
	if err != nil {
		return nil, notFound(req, stderr)
	}
	libs, stderr, err := p.run(ctx, env, isolated, append(linkage, "--libs", req.Name)...)
	if err != nil {
		return nil, notFound(req, stderr)
	}

	info := &domain.LibraryInfo{Name: req.Name, Version: version}
	for _, tok := range strings.Fields(cflags) {
		if dir, ok := strings.CutPrefix(tok, "-I"); ok && dir != "" {
			info.IncludePaths = append(info.IncludePaths, dir)
		}
	}
	for _, tok := range strings.Fields(libs) {
		info.LinkArgs = append(info.LinkArgs, tok)
		switch {
		case strings.HasPrefix(tok, "-L"):
			info.LinkPaths = append(info.LinkPaths, tok[2:])
		case strings.HasPrefix(tok, "-l"):
			info.Libs = append(info.Libs, tok[2:])
		}
	}
	info.IncludePaths = domain.Dedupe(info.IncludePaths)
	info.LinkPaths = domain.Dedupe(info.LinkPaths)

	return info, nil
}

func (p *Prober) run(
	ctx context.Context,
	env envscope.Env,
	isolated bool,
	args ...string,
) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := &domain.Command{
		Args:    append([]string{p.binary}, args...),
		Environ: env.Environ(),
	}
	if isolated {
		cmd.Env = map[string]string{PathVar: ""}
	}
	if v, ok := ports.VertexFromContext(ctx); ok {
		v.Log(domain.LogLevelDebug, strings.Join(cmd.Args, " "))
	}
	err = p.executor.Execute(ctx, cmd, &out, &errOut)
	return strings.TrimSpace(out.String()), strings.TrimSpace(errOut.String()), err
}

func notFound(req domain.ProbeRequest, stderr string) error {
	err := zerr.With(zerr.Wrap(domain.ErrProbeNotFound, "pkg-config lookup failed"), "library", req.Name)
	if len(req.SearchPaths) > 0 {
		err = zerr.With(err, "search_paths", strings.Join(req.SearchPaths, string(os.PathListSeparator)))
	}
	if stderr != "" {
		err = zerr.With(err, "stderr", stderr)
	}
	return err
}
