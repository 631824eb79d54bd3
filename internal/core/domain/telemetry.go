package domain

// VertexStatus represents the lifecycle state of a step in the build plan.
type VertexStatus string

const (
	// VertexStatusPending indicates the step is waiting for its turn in the plan.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning indicates the step is currently executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the step executed successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the step execution failed.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the step was skipped because its fingerprint was unchanged.
	VertexStatusCached VertexStatus = "cached"
	// VertexStatusSkipped indicates the step never ran because an earlier step failed.
	VertexStatusSkipped VertexStatus = "skipped"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, Cached, Skipped).
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached, VertexStatusSkipped:
		return true
	default:
		return false
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
