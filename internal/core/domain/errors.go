package domain

import "go.trai.ch/zerr"

var (
	// ErrProbeNotFound is returned when no package description matches the requested library.
	ErrProbeNotFound = zerr.New("library not found")

	// ErrProbeVersionTooLow is returned when the installed library is older than the requested minimum.
	ErrProbeVersionTooLow = zerr.New("library version too low")

	// ErrBuildToolFailure is returned when an external build tool exits non-zero
	// or the source directory lacks the metadata the tool expects.
	ErrBuildToolFailure = zerr.New("build tool failed")

	// ErrTemplateMissing is returned when a derived-header template does not exist.
	ErrTemplateMissing = zerr.New("template missing")

	// ErrBindingGenerationFailure is returned when the binding generator reports a failure.
	ErrBindingGenerationFailure = zerr.New("binding generation failed")

	// ErrStepAlreadyExists is returned when attempting to add a step with a name that already exists.
	ErrStepAlreadyExists = zerr.New("step already exists")

	// ErrMissingDependency is returned when a step references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the step dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownBackend is returned when the encoder backend selector names no known backend.
	ErrUnknownBackend = zerr.New("unknown encoder backend")

	// ErrUnknownStrategy is returned when the acquisition strategy is neither system nor vendored.
	ErrUnknownStrategy = zerr.New("unknown acquisition strategy")

	// ErrMissingRecipe is returned when the manifest has no recipe for a required dependency.
	ErrMissingRecipe = zerr.New("missing recipe")

	// ErrInterrupted is returned when the user stops a build from the progress display.
	ErrInterrupted = zerr.New("build interrupted")

	// ErrUnknownTool is returned when a step names a build tool with no registered builder.
	ErrUnknownTool = zerr.New("unknown build tool")

	// ErrUnknownProgressMode is returned when the progress selector names no known display.
	ErrUnknownProgressMode = zerr.New("unknown progress mode")

	// ErrEmptyCommand is returned when a command has no program to run.
	ErrEmptyCommand = zerr.New("empty command")
)

// ErrMissingRecipeFor annotates ErrMissingRecipe with the recipe name.
func ErrMissingRecipeFor(name string) error {
	return zerr.With(zerr.Wrap(ErrMissingRecipe, "manifest incomplete"), "recipe", name)
}
