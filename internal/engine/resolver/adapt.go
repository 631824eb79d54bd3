package resolver

import "go.trai.ch/heifsys/internal/core/domain"

// Adapt applies the target overrides on top of a step's baseline config.
// Display output is always switched off; constrained targets also lose
// assembly and threads. Keys are only ever written, never removed.
func Adapt(cfg *domain.ConfigMap, flags domain.TargetFlags, target domain.Target) {
	flags.Display.Apply(cfg, false)
	if target.Constrained {
		flags.Assembly.Apply(cfg, false)
		flags.Threads.Apply(cfg, false)
	}
}
