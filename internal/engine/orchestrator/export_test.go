package orchestrator

import "go.trai.ch/heifsys/internal/core/domain"

// GetStepStatusMap returns a copy of the internal step status map.
// This is exported for testing purposes only.
func (o *Orchestrator) GetStepStatusMap() map[domain.InternedString]StepStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	statusMap := make(map[domain.InternedString]StepStatus, len(o.stepStatus))
	for k, v := range o.stepStatus {
		statusMap[k] = v
	}
	return statusMap
}

// NewTailWriter exposes the output tail buffer to tests.
func NewTailWriter(n int) interface {
	Write(p []byte) (int, error)
	String() string
} {
	return newTailWriter(n)
}

// Chain exposes fingerprint chaining to tests.
func Chain(own string, deps ...string) string {
	return chain(own, deps)
}
