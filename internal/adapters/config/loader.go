// Package config loads the dependency manifest and the run settings.
package config

import (
	_ "embed"
	"os"
	"slices"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the file name of the built-in manifest.
const DefaultManifestName = "heifsys.yaml"

//go:embed heifsys.yaml
var defaultManifest []byte

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader for YAML manifests.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads the manifest at path, or the built-in one when path is empty.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	if path == "" {
		return Parse(defaultManifest)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if l.logger != nil {
		l.logger.Info("loaded manifest " + path)
	}
	return m, nil
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*domain.Manifest, error) {
	var file Manifestfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	m := &domain.Manifest{
		Version:  file.Version,
		Recipes:  make(map[string]*domain.Recipe, len(file.Recipes)),
		Bindings: domain.BindingSpec(file.Bindings),
	}

	names := make([]string, 0, len(file.Recipes))
	for name := range file.Recipes {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		recipe, err := toRecipe(name, file.Recipes[name])
		if err != nil {
			return nil, err
		}
		m.Recipes[name] = recipe
	}

	for _, req := range file.System {
		if req.Name == "" {
			return nil, zerr.New("system requirement without a name")
		}
		m.System = append(m.System, domain.Requirement(req))
	}
	return m, nil
}

func toRecipe(name string, dto RecipeDTO) (*domain.Recipe, error) {
	tool, err := parseTool(dto.Tool)
	if err != nil {
		return nil, zerr.With(err, "recipe", name)
	}
	if dto.Source == "" {
		return nil, zerr.With(zerr.New("recipe has no source"), "recipe", name)
	}

	recipe := &domain.Recipe{
		Name:    name,
		Source:  dto.Source,
		Tool:    tool,
		Library: dto.Library,
		Args:    dto.Args,
		Defines: orEmpty(dto.Defines),
		Flags: domain.TargetFlags{
			Display:  dto.Flags.Display.toDomain(),
			Assembly: dto.Flags.Assembly.toDomain(),
			Threads:  dto.Flags.Threads.toDomain(),
		},
	}

	if c := dto.Compile; c != nil {
		if len(c.Sources) == 0 {
			return nil, zerr.With(zerr.New("compile variant has no sources"), "recipe", name)
		}
		templates := make([]domain.Template, 0, len(c.Templates))
		for _, t := range c.Templates {
			templates = append(templates, domain.Template(t))
		}
		recipe.Compile = &domain.CompileRecipe{
			Sources:     c.Sources,
			IncludeDirs: c.IncludeDirs,
			Headers:     c.Headers,
			Templates:   templates,
			Defines:     orEmpty(c.Defines),
		}
	}
	return recipe, nil
}

func parseTool(s string) (domain.Tool, error) {
	switch t := domain.Tool(s); t {
	case domain.ToolCMake, domain.ToolAutotools, domain.ToolCompile:
		return t, nil
	case "":
		return domain.ToolCMake, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownTool, "unsupported tool in manifest"), "tool", s)
	}
}

func orEmpty(d Defines) *domain.ConfigMap {
	if d.ConfigMap == nil {
		return domain.NewConfigMap()
	}
	return d.ConfigMap
}
