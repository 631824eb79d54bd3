package domain

// FlagRef names a configuration key that controls a target-sensitive feature.
// Inverted keys disable the feature when set.
type FlagRef struct {
	Key    string
	Invert bool
}

// Apply writes the feature state to m.
func (f *FlagRef) Apply(m *ConfigMap, enabled bool) {
	if f == nil || f.Key == "" {
		return
	}
	m.SetBool(f.Key, enabled != f.Invert)
}

// TargetFlags are the keys a recipe exposes to the target adapter.
type TargetFlags struct {
	Display  *FlagRef
	Assembly *FlagRef
	Threads  *FlagRef
}

// CompileRecipe describes the direct-compile variant used on constrained targets.
type CompileRecipe struct {
	Sources     []string
	IncludeDirs []string
	Headers     []string
	Templates   []Template
	Defines     *ConfigMap
}

// Recipe is the manifest description of one native dependency.
type Recipe struct {
	Name    string
	Source  string
	Tool    Tool
	Library string
	Args    []string
	Defines *ConfigMap
	Flags   TargetFlags
	Compile *CompileRecipe
}

// BindingSpec configures the binding generator.
type BindingSpec struct {
	Header    string
	Allow     string
	Output    string
	Generator []string
	Args      []string
	ClangArgs []string
}

// Requirement is a library the system strategy must find.
type Requirement struct {
	Name       string
	MinVersion string
}

// Manifest is the full dependency manifest.
type Manifest struct {
	Version  string
	Recipes  map[string]*Recipe
	Bindings BindingSpec
	System   []Requirement
}

// Recipe returns the recipe named name.
func (m *Manifest) Recipe(name string) (*Recipe, error) {
	r, ok := m.Recipes[name]
	if !ok || r == nil {
		return nil, ErrMissingRecipeFor(name)
	}
	return r, nil
}
