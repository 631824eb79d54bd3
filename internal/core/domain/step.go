package domain

import "path/filepath"

// Tool names the build tool flavour that drives a step.
type Tool string

const (
	// ToolCMake configures, builds and installs with CMake.
	ToolCMake Tool = "cmake"
	// ToolAutotools runs configure, make and make install.
	ToolAutotools Tool = "autotools"
	// ToolCompile compiles an explicit source list and archives the objects.
	ToolCompile Tool = "compile"
)

// Template describes a derived header generated before compilation.
// Source is relative to the step's source dir, Output to its output dir.
type Template struct {
	Source string            `json:"source"`
	Output string            `json:"output"`
	Values map[string]string `json:"values,omitempty"`
}

// Step is one native library build. Its Config is frozen when the step is created.
type Step struct {
	Name         InternedString
	Tool         Tool
	Target       Target
	SourceDir    string
	OutputDir    string
	Config       *ConfigMap
	Args         []string
	Dependencies []InternedString

	// Direct-compile inputs.
	Sources     []string
	IncludeDirs []string
	Headers     []string
	Templates   []Template
	Library     string
}

// NewStep returns a step whose config is a frozen snapshot of config.
func NewStep(name string, tool Tool, config *ConfigMap, deps ...string) *Step {
	if config == nil {
		config = NewConfigMap()
	}
	return &Step{
		Name:         NewInternedString(name),
		Tool:         tool,
		Config:       config.Freeze(),
		Dependencies: internStrings(deps),
	}
}

// Output returns the build output the step produces.
func (s *Step) Output() BuildOutput {
	return BuildOutput{Name: s.Name.String(), Root: s.OutputDir}
}

// BuildOutput is the install root produced by a step.
type BuildOutput struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

// IncludeDir returns <root>/include.
func (o BuildOutput) IncludeDir() string {
	return filepath.Join(o.Root, "include")
}

// LibDir returns <root>/lib.
func (o BuildOutput) LibDir() string {
	return filepath.Join(o.Root, "lib")
}

// PkgConfigDir returns <root>/lib/pkgconfig.
func (o BuildOutput) PkgConfigDir() string {
	return filepath.Join(o.Root, "lib", "pkgconfig")
}
