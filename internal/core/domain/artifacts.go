package domain

// Artifacts is the collected include and link surface handed to the host build.
type Artifacts struct {
	Strategy    string        `json:"strategy"`
	Target      string        `json:"target"`
	Backend     string        `json:"backend,omitempty"`
	IncludeDirs []string      `json:"include_dirs"`
	LinkArgs    []string      `json:"link_args"`
	Outputs     []BuildOutput `json:"outputs,omitempty"`
	Library     *LibraryInfo  `json:"library,omitempty"`
	Bindings    string        `json:"bindings,omitempty"`
}
