package domain

import "time"

// BuildInfo records the fingerprint a step was last built with.
type BuildInfo struct {
	StepName    string    `json:"step_name,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	OutputRoot  string    `json:"output_root,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
