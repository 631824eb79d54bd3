package orchestrator_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/heifsys/internal/core/ports/mocks"
	"go.trai.ch/heifsys/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	builder   *mocks.MockNativeBuilder
	hasher    *mocks.MockHasher
	store     *mocks.MockBuildInfoStore
	telemetry *mocks.MockTelemetry
	vertex    *mocks.MockVertex
	logger    *mocks.MockLogger
	orch      *orchestrator.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		builder:   mocks.NewMockNativeBuilder(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		store:     mocks.NewMockBuildInfoStore(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		vertex:    mocks.NewMockVertex(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}

	f.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, f.vertex
		}).AnyTimes()
	f.vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	f.vertex.EXPECT().Stderr().Return(io.Discard).AnyTimes()
	f.vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	builders := ports.BuilderSet{domain.ToolCMake: f.builder}
	f.orch = orchestrator.New(builders, f.hasher, f.telemetry, f.logger)
	return f
}

func newPlan(t *testing.T, names ...string) *domain.Plan {
	t.Helper()
	root := t.TempDir()
	g := domain.NewGraph()
	var prev []string
	for _, name := range names {
		step := domain.NewStep(name, domain.ToolCMake, nil, prev...)
		step.OutputDir = filepath.Join(root, name)
		require.NoError(t, g.AddStep(step))
		prev = append(prev, name)
	}
	require.NoError(t, g.Validate())
	return &domain.Plan{Graph: g, Top: names[len(names)-1]}
}

func build(step *domain.Step) (domain.BuildOutput, error) {
	out := step.Output()
	return out, os.MkdirAll(out.LibDir(), 0o750)
}

func TestRun_Sequential(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265", "x265", "libheif")

	var order []string
	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil).Times(3)
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step *domain.Step, _, _ io.Writer) (domain.BuildOutput, error) {
			order = append(order, step.Name.String())
			return build(step)
		}).Times(3)
	f.vertex.EXPECT().Complete(nil).Times(3)

	outputs, err := f.orch.Run(context.Background(), plan, orchestrator.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"libde265", "x265", "libheif"}, order)
	require.Len(t, outputs, 3)
	assert.Equal(t, "libheif", outputs[2].Name)
	for _, status := range f.orch.GetStepStatusMap() {
		assert.Equal(t, orchestrator.StatusCompleted, status)
	}
}

func TestRun_FailureAborts(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265", "x265", "libheif")
	buildErr := zerrBuildFailure()

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil).Times(2)
	gomock.InOrder(
		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, step *domain.Step, _, _ io.Writer) (domain.BuildOutput, error) {
				return build(step)
			}),
		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.Step, _, stderr io.Writer) (domain.BuildOutput, error) {
				_, _ = io.WriteString(stderr, "x265: unsupported compiler\n")
				return domain.BuildOutput{}, buildErr
			}),
	)
	f.vertex.EXPECT().Complete(nil)
	f.vertex.EXPECT().Complete(gomock.Not(gomock.Nil()))

	outputs, err := f.orch.Run(context.Background(), plan, orchestrator.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildToolFailure)
	assert.Len(t, outputs, 1)

	statuses := f.orch.GetStepStatusMap()
	assert.Equal(t, orchestrator.StatusCompleted, statuses[domain.NewInternedString("libde265")])
	assert.Equal(t, orchestrator.StatusFailed, statuses[domain.NewInternedString("x265")])
	assert.Equal(t, orchestrator.StatusPending, statuses[domain.NewInternedString("libheif")])
}

func zerrBuildFailure() error {
	return errors.Join(domain.ErrBuildToolFailure, errors.New("exit status 1"))
}

func TestRun_SkipsUpToDateSteps(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265")
	step, _ := plan.Graph.Step("libde265")
	_, err := build(&step)
	require.NoError(t, err)

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil)
	f.store.EXPECT().Get("libde265").Return(&domain.BuildInfo{
		StepName:    "libde265",
		Fingerprint: "fp",
		OutputRoot:  step.OutputDir,
	}, nil)
	f.vertex.EXPECT().Cached()
	f.vertex.EXPECT().Complete(nil)

	outputs, err := f.orch.Run(context.Background(), plan, orchestrator.Options{Store: f.store})
	require.NoError(t, err)
	assert.Equal(t, []domain.BuildOutput{step.Output()}, outputs)
	assert.Equal(t, orchestrator.StatusCached, f.orch.GetStepStatusMap()[step.Name])
}

func TestRun_RebuildsOnChangedFingerprint(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265")
	step, _ := plan.Graph.Step("libde265")

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("new", nil)
	f.store.EXPECT().Get("libde265").Return(&domain.BuildInfo{Fingerprint: "old", OutputRoot: step.OutputDir}, nil)
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Step, _, _ io.Writer) (domain.BuildOutput, error) {
			return build(s)
		})
	f.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
		assert.Equal(t, "libde265", info.StepName)
		assert.Equal(t, "new", info.Fingerprint)
		assert.Equal(t, step.OutputDir, info.OutputRoot)
		return nil
	})
	f.vertex.EXPECT().Complete(nil)

	_, err := f.orch.Run(context.Background(), plan, orchestrator.Options{Store: f.store})
	require.NoError(t, err)
}

func fingerprintsByName(fps map[string]string) func(*domain.Step) (string, error) {
	return func(step *domain.Step) (string, error) {
		return fps[step.Name.String()], nil
	}
}

func TestRun_RebuiltDependencyInvalidatesDependents(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265", "libheif")
	dep, _ := plan.Graph.Step("libde265")
	top, _ := plan.Graph.Step("libheif")
	_, err := build(&dep)
	require.NoError(t, err)
	_, err = build(&top)
	require.NoError(t, err)

	f.hasher.EXPECT().Fingerprint(gomock.Any()).
		DoAndReturn(fingerprintsByName(map[string]string{"libde265": "dep-new", "libheif": "top"})).Times(2)
	f.store.EXPECT().Get("libde265").Return(&domain.BuildInfo{Fingerprint: "dep-old", OutputRoot: dep.OutputDir}, nil)
	f.store.EXPECT().Get("libheif").Return(&domain.BuildInfo{
		Fingerprint: orchestrator.Chain("top", "dep-old"),
		OutputRoot:  top.OutputDir,
	}, nil)

	var built []string
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Step, _, _ io.Writer) (domain.BuildOutput, error) {
			built = append(built, s.Name.String())
			return build(s)
		}).Times(2)

	var stored []string
	f.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
		stored = append(stored, info.Fingerprint)
		return nil
	}).Times(2)
	f.vertex.EXPECT().Complete(nil).Times(2)

	_, err = f.orch.Run(context.Background(), plan, orchestrator.Options{Store: f.store})
	require.NoError(t, err)
	assert.Equal(t, []string{"libde265", "libheif"}, built)
	assert.Equal(t, []string{"dep-new", orchestrator.Chain("top", "dep-new")}, stored)
}

func TestRun_UnchangedChainIsCached(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265", "libheif")
	dep, _ := plan.Graph.Step("libde265")
	top, _ := plan.Graph.Step("libheif")
	_, err := build(&dep)
	require.NoError(t, err)
	_, err = build(&top)
	require.NoError(t, err)

	f.hasher.EXPECT().Fingerprint(gomock.Any()).
		DoAndReturn(fingerprintsByName(map[string]string{"libde265": "dep", "libheif": "top"})).Times(2)
	f.store.EXPECT().Get("libde265").Return(&domain.BuildInfo{Fingerprint: "dep", OutputRoot: dep.OutputDir}, nil)
	f.store.EXPECT().Get("libheif").Return(&domain.BuildInfo{
		Fingerprint: orchestrator.Chain("top", "dep"),
		OutputRoot:  top.OutputDir,
	}, nil)
	f.vertex.EXPECT().Cached().Times(2)
	f.vertex.EXPECT().Complete(nil).Times(2)

	_, err = f.orch.Run(context.Background(), plan, orchestrator.Options{Store: f.store})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.StatusCached, f.orch.GetStepStatusMap()[top.Name])
}

func TestChain(t *testing.T) {
	assert.Equal(t, "own", orchestrator.Chain("own"))
	assert.NotEqual(t, orchestrator.Chain("own", "a"), orchestrator.Chain("own", "b"))
	assert.Len(t, orchestrator.Chain("own", "a"), 16)
}

func TestRun_ForceIgnoresStore(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265")

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil)
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Step, _, _ io.Writer) (domain.BuildOutput, error) {
			return build(s)
		})
	f.store.EXPECT().Put(gomock.Any()).Return(nil)
	f.vertex.EXPECT().Complete(nil)

	_, err := f.orch.Run(context.Background(), plan, orchestrator.Options{Store: f.store, Force: true})
	require.NoError(t, err)
}

func TestRun_CopiesToolOutput(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265")

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil)
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Step, stdout, stderr io.Writer) (domain.BuildOutput, error) {
			_, _ = io.WriteString(stdout, "-- Configuring done\n")
			_, _ = io.WriteString(stderr, "warning: unused variable\n")
			return build(s)
		})
	f.vertex.EXPECT().Complete(nil)

	var out bytes.Buffer
	_, err := f.orch.Run(context.Background(), plan, orchestrator.Options{Output: &out})
	require.NoError(t, err)
	assert.Equal(t, "-- Configuring done\nwarning: unused variable\n", out.String())
}

func TestRun_UnknownTool(t *testing.T) {
	f := newFixture(t)
	g := domain.NewGraph()
	step := domain.NewStep("kvazaar", domain.ToolAutotools, nil)
	step.OutputDir = t.TempDir()
	require.NoError(t, g.AddStep(step))

	f.hasher.EXPECT().Fingerprint(gomock.Any()).Return("fp", nil)
	f.vertex.EXPECT().Complete(gomock.Not(gomock.Nil()))

	_, err := f.orch.Run(context.Background(), &domain.Plan{Graph: g, Top: "kvazaar"}, orchestrator.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	plan := newPlan(t, "libde265")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.Run(ctx, plan, orchestrator.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTailWriter(t *testing.T) {
	w := orchestrator.NewTailWriter(2)
	_, _ = w.Write([]byte("one\ntwo\nthr"))
	_, _ = w.Write([]byte("ee\nfour"))

	assert.Equal(t, "three\nfour", w.String())
}
