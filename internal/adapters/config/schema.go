package config

import (
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// PathTag marks a define value as a filesystem path.
const PathTag = "!path"

// Manifestfile represents the structure of the heifsys.yaml manifest.
type Manifestfile struct {
	Version  string               `yaml:"version"`
	Recipes  map[string]RecipeDTO `yaml:"recipes"`
	Bindings BindingsDTO          `yaml:"bindings"`
	System   []RequirementDTO     `yaml:"system"`
}

// RecipeDTO represents one native dependency in the manifest.
type RecipeDTO struct {
	Source  string      `yaml:"source"`
	Tool    string      `yaml:"tool"`
	Library string      `yaml:"library"`
	Args    []string    `yaml:"args"`
	Defines Defines     `yaml:"defines"`
	Flags   FlagsDTO    `yaml:"flags"`
	Compile *CompileDTO `yaml:"compile"`
}

// FlagsDTO names the keys the target adapter may switch.
type FlagsDTO struct {
	Display  *FlagDTO `yaml:"display"`
	Assembly *FlagDTO `yaml:"assembly"`
	Threads  *FlagDTO `yaml:"threads"`
}

// FlagDTO is a key plus its polarity.
type FlagDTO struct {
	Key    string `yaml:"key"`
	Invert bool   `yaml:"invert"`
}

// CompileDTO describes the direct-compile variant of a recipe.
type CompileDTO struct {
	Sources     []string      `yaml:"sources"`
	IncludeDirs []string      `yaml:"include_dirs"`
	Headers     []string      `yaml:"headers"`
	Templates   []TemplateDTO `yaml:"templates"`
	Defines     Defines       `yaml:"defines"`
}

// TemplateDTO is a derived header rendered before compilation.
type TemplateDTO struct {
	Source string            `yaml:"source"`
	Output string            `yaml:"output"`
	Values map[string]string `yaml:"values"`
}

// BindingsDTO configures the binding generator.
type BindingsDTO struct {
	Header    string   `yaml:"header"`
	Allow     string   `yaml:"allow"`
	Output    string   `yaml:"output"`
	Generator []string `yaml:"generator"`
	Args      []string `yaml:"args"`
	ClangArgs []string `yaml:"clang_args"`
}

// RequirementDTO is a library the system strategy must find.
type RequirementDTO struct {
	Name       string `yaml:"name"`
	MinVersion string `yaml:"min_version"`
}

// Defines is an ordered mapping of build defines. The document order of the
// keys is kept. Booleans stay booleans and values tagged !path become paths;
// everything else is a string.
type Defines struct {
	*domain.ConfigMap
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Defines) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(zerr.New("defines must be a mapping"), "line", node.Line)
	}

	m := domain.NewConfigMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return zerr.With(zerr.With(zerr.New("define value must be a scalar"), "key", key.Value), "line", value.Line)
		}

		switch value.Tag {
		case "!!bool":
			var b bool
			if err := value.Decode(&b); err != nil {
				return zerr.With(zerr.Wrap(err, "invalid boolean define"), "key", key.Value)
			}
			m.SetBool(key.Value, b)
		case PathTag:
			m.SetPath(key.Value, value.Value)
		default:
			m.SetString(key.Value, value.Value)
		}
	}
	d.ConfigMap = m
	return nil
}

func (f *FlagDTO) toDomain() *domain.FlagRef {
	if f == nil || f.Key == "" {
		return nil
	}
	return &domain.FlagRef{Key: f.Key, Invert: f.Invert}
}
