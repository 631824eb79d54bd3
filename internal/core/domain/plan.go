package domain

// SkippedStep records a dependency the resolver left out of the plan.
type SkippedStep struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BuildOptions are the resolved inputs of a vendored build.
type BuildOptions struct {
	Target        Target
	Backend       EncoderBackend
	SourceRoot    string
	OutputRoot    string
	ToolchainFile string
}

// Plan is the validated, ordered set of steps for one build.
type Plan struct {
	Target  Target
	Backend EncoderBackend
	Graph   *Graph
	Skipped []SkippedStep
	Top     string
}

// Outputs returns the build output of every step in execution order.
func (p *Plan) Outputs() []BuildOutput {
	var outs []BuildOutput
	for s := range p.Graph.Walk() {
		outs = append(outs, s.Output())
	}
	return outs
}

// TopStep returns the top-level step.
func (p *Plan) TopStep() (Step, bool) {
	return p.Graph.Step(p.Top)
}
