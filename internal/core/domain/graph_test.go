package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddStep(t *testing.T) {
	g := domain.NewGraph()
	step := domain.NewStep("libde265", domain.ToolCMake, nil)

	if err := g.AddStep(step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := g.AddStep(step)
	if err == nil {
		t.Fatal("expected error when adding duplicate step, got nil")
	}
	if !errors.Is(err, domain.ErrStepAlreadyExists) {
		t.Errorf("expected ErrStepAlreadyExists, got %v", err)
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if name, ok := zErr.Metadata()["step"].(string); !ok || name != "libde265" {
		t.Errorf("expected metadata step=libde265, got %v", zErr.Metadata()["step"])
	}
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddStep(domain.NewStep("A", domain.ToolCMake, nil, "B"))
	_ = g.AddStep(domain.NewStep("B", domain.ToolCMake, nil, "A"))

	err := g.Validate()
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if cycle, ok := zErr.Metadata()["cycle"].(string); !ok || cycle != "A -> B -> A" {
		t.Errorf("expected cycle A -> B -> A, got %v", zErr.Metadata()["cycle"])
	}
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewGraph()
	_ = g.AddStep(domain.NewStep("libheif", domain.ToolCMake, nil, "x265"))

	err := g.Validate()
	if !errors.Is(err, domain.ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

func TestGraph_Walk(t *testing.T) {
	g := domain.NewGraph()
	// libheif -> x265, libheif -> libde265, x265 -> libde265
	_ = g.AddStep(domain.NewStep("libheif", domain.ToolCMake, nil, "libde265", "x265"))
	_ = g.AddStep(domain.NewStep("x265", domain.ToolCMake, nil, "libde265"))
	_ = g.AddStep(domain.NewStep("libde265", domain.ToolCMake, nil))

	if err := g.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	var got []string
	for s := range g.Walk() {
		got = append(got, s.Name.String())
	}

	want := []string{"libde265", "x265", "libheif"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestGraph_Walk_Deterministic(t *testing.T) {
	build := func() []string {
		g := domain.NewGraph()
		for _, n := range []string{"c", "a", "d", "b"} {
			_ = g.AddStep(domain.NewStep(n, domain.ToolCMake, nil))
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("validate failed: %v", err)
		}
		var order []string
		for s := range g.Walk() {
			order = append(order, s.Name.String())
		}
		return order
	}

	first := build()
	for range 10 {
		next := build()
		for i := range first {
			if first[i] != next[i] {
				t.Fatalf("non-deterministic order: %v vs %v", first, next)
			}
		}
	}
	if first[0] != "c" || first[3] != "b" {
		t.Errorf("expected insertion order, got %v", first)
	}
}
