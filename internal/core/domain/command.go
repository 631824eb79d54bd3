package domain

// Command is an external process invocation.
// Environ, when non-nil, replaces the process environment as the base;
// Env entries are applied on top of it.
type Command struct {
	Args    []string
	Dir     string
	Environ []string
	Env     map[string]string
}
