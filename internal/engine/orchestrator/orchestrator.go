// Package orchestrator executes a build plan one step at a time.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

// StepStatus represents the status of a step.
type StepStatus string

const (
	// StatusPending indicates the step is waiting to be executed.
	StatusPending StepStatus = "Pending"
	// StatusRunning indicates the step is currently executing.
	StatusRunning StepStatus = "Running"
	// StatusCompleted indicates the step has finished successfully.
	StatusCompleted StepStatus = "Completed"
	// StatusFailed indicates the step execution failed.
	StatusFailed StepStatus = "Failed"
	// StatusCached indicates the step was skipped because its output is up to date.
	StatusCached StepStatus = "Cached"
)

// tailLines is how much tool output a failure error carries.
const tailLines = 20

// Options control a single run.
type Options struct {
	// Store holds the fingerprints of earlier builds. A nil store disables skipping.
	Store ports.BuildInfoStore
	// Force rebuilds every step regardless of its fingerprint.
	Force bool
	// Output, when set, also receives the tool output of every step.
	Output io.Writer
}

// Orchestrator runs the steps of a plan sequentially in plan order.
type Orchestrator struct {
	builders  ports.BuilderSet
	hasher    ports.Hasher
	telemetry ports.Telemetry
	logger    ports.Logger

	mu         sync.RWMutex
	stepStatus map[domain.InternedString]StepStatus
}

// New creates a new Orchestrator.
func New(
	builders ports.BuilderSet,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		builders:   builders,
		hasher:     hasher,
		telemetry:  telemetry,
		logger:     logger,
		stepStatus: make(map[domain.InternedString]StepStatus),
	}
}

// Run builds every step of plan and returns their outputs in execution order.
// The first failing step aborts the run; later steps are never started.
func (o *Orchestrator) Run(ctx context.Context, plan *domain.Plan, opts Options) ([]domain.BuildOutput, error) {
	if err := plan.Graph.Validate(); err != nil {
		return nil, err
	}
	o.initStepStatuses(plan)

	outputs := make([]domain.BuildOutput, 0, plan.Graph.Len())
	fingerprints := make(map[domain.InternedString]string, plan.Graph.Len())
	for step := range plan.Graph.Walk() {
		if err := ctx.Err(); err != nil {
			return outputs, zerr.Wrap(err, "build interrupted")
		}

		out, err := o.runStep(ctx, &step, opts, fingerprints)
		if err != nil {
			o.updateStatus(step.Name, StatusFailed)
			return outputs, zerr.With(zerr.Wrap(err, "step failed"), "step", step.Name.String())
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (o *Orchestrator) initStepStatuses(plan *domain.Plan) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stepStatus = make(map[domain.InternedString]StepStatus, plan.Graph.Len())
	for step := range plan.Graph.Walk() {
		o.stepStatus[step.Name] = StatusPending
	}
}

func (o *Orchestrator) updateStatus(name domain.InternedString, status StepStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stepStatus[name] = status
}

func (o *Orchestrator) runStep(
	ctx context.Context,
	step *domain.Step,
	opts Options,
	fingerprints map[domain.InternedString]string,
) (out domain.BuildOutput, err error) {
	o.updateStatus(step.Name, StatusRunning)
	ctx, vertex := o.telemetry.Record(ctx, step.Name.String())
	defer func() { vertex.Complete(err) }()

	own, err := o.hasher.Fingerprint(step)
	if err != nil {
		return domain.BuildOutput{}, err
	}
	deps := make([]string, len(step.Dependencies))
	for i, d := range step.Dependencies {
		deps[i] = fingerprints[d]
	}
	fingerprint := chain(own, deps)
	fingerprints[step.Name] = fingerprint

	if !opts.Force && o.upToDate(step, fingerprint, opts.Store) {
		vertex.Cached()
		vertex.Log(domain.LogLevelInfo, "up to date, fingerprint "+fingerprint)
		o.updateStatus(step.Name, StatusCached)
		o.logger.Info("up to date: " + step.Name.String())
		return step.Output(), nil
	}

	builder, ok := o.builders[step.Tool]
	if !ok || builder == nil {
		return domain.BuildOutput{}, zerr.With(zerr.Wrap(domain.ErrUnknownTool, "no builder"), "tool", string(step.Tool))
	}

	o.logger.Info("building " + step.Name.String())
	vertex.Log(domain.LogLevelInfo, "building with "+string(step.Tool))
	tail := newTailWriter(tailLines)
	stdout := []io.Writer{vertex.Stdout(), tail}
	stderr := []io.Writer{vertex.Stderr(), tail}
	if opts.Output != nil {
		stdout = append(stdout, opts.Output)
		stderr = append(stderr, opts.Output)
	}
	out, err = builder.Build(ctx, step, io.MultiWriter(stdout...), io.MultiWriter(stderr...))
	if err != nil {
		if lines := tail.String(); lines != "" {
			err = zerr.With(err, "output", lines)
		}
		return domain.BuildOutput{}, err
	}

	if opts.Store != nil {
		info := domain.BuildInfo{
			StepName:    step.Name.String(),
			Fingerprint: fingerprint,
			OutputRoot:  out.Root,
			Timestamp:   time.Now(),
		}
		if err := opts.Store.Put(info); err != nil {
			return domain.BuildOutput{}, zerr.Wrap(err, "failed to store build info")
		}
	}

	o.updateStatus(step.Name, StatusCompleted)
	return out, nil
}

// chain folds the fingerprints of a step's dependencies into its own, so a
// rebuilt dependency invalidates every step built on top of it.
func chain(own string, deps []string) string {
	if len(deps) == 0 {
		return own
	}
	h := xxhash.New()
	_, _ = h.WriteString(own)
	for _, d := range deps {
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(d)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// upToDate reports whether the last build of step used the same fingerprint
// and its install root is still present.
func (o *Orchestrator) upToDate(step *domain.Step, fingerprint string, store ports.BuildInfoStore) bool {
	if store == nil {
		return false
	}
	info, err := store.Get(step.Name.String())
	if err != nil || info == nil {
		return false
	}
	if info.Fingerprint != fingerprint || info.OutputRoot != step.OutputDir {
		return false
	}
	_, err = os.Stat(step.Output().LibDir())
	return err == nil
}
