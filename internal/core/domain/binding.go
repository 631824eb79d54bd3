package domain

// BindingRequest is the input handed to the binding generator.
// Generator, when set, replaces the generator's default command.
// ExtraArgs go to the generator, ClangArgs to the C parser behind it.
type BindingRequest struct {
	Header       string
	IncludeDirs  []string
	AllowPattern string
	Generator    []string
	ExtraArgs    []string
	ClangArgs    []string
}

// GeneratedSource is the generator's output, written verbatim by the caller.
type GeneratedSource struct {
	Content []byte
}
