// Package domain contains the core domain models of the native dependency build.
package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of build steps.
// Steps are visited in insertion order, so the execution order is deterministic.
type Graph struct {
	steps          map[InternedString]Step
	insertionOrder []InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		steps: make(map[InternedString]Step),
	}
}

// AddStep adds a step to the graph.
// It returns an error if a step with the same name already exists.
func (g *Graph) AddStep(s *Step) error {
	if _, exists := g.steps[s.Name]; exists {
		return zerr.With(zerr.Wrap(ErrStepAlreadyExists, "cannot add step"), "step", s.Name.String())
	}
	g.steps[s.Name] = *s
	g.insertionOrder = append(g.insertionOrder, s.Name)
	return nil
}

// Step returns the step with the given name.
func (g *Graph) Step(name string) (Step, bool) {
	s, ok := g.steps[NewInternedString(name)]
	return s, ok
}

// Len returns the number of steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Validate checks for cycles and missing dependencies using a topological sort.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.steps))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		step, exists := g.steps[u]
		if !exists {
			return zerr.With(zerr.Wrap(ErrMissingDependency, "invalid graph"), "dependency", u.String())
		}

		for _, dep := range step.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.insertionOrder {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	var names []string
	started := false
	for _, node := range path {
		if node == dep {
			started = true
		}
		if started {
			names = append(names, node.String())
		}
	}
	names = append(names, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid graph"), "cycle", strings.Join(names, " -> "))
}

// Walk returns an iterator that yields steps in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.steps[name]) {
				return
			}
		}
	}
}
