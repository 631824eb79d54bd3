package domain

import (
	"runtime"
	"strings"
)

// Target describes the compilation target of a build.
// It is computed once from a triple and never mutated.
type Target struct {
	Triple      string
	Arch        string
	OS          string
	Env         string
	Constrained bool
}

// ParseTarget splits a target triple of the form arch-vendor-os[-env].
// Two-component triples are read as arch-os.
func ParseTarget(triple string) Target {
	t := Target{Triple: triple}
	parts := strings.Split(triple, "-")
	t.Arch = parts[0]
	switch len(parts) {
	case 1:
	case 2:
		t.OS = parts[1]
	case 3:
		t.OS = parts[2]
	default:
		t.OS = parts[2]
		t.Env = strings.Join(parts[3:], "-")
	}
	t.Constrained = Constrained(t.Arch)
	return t
}

// HostTarget returns the target of the running process.
func HostTarget() Target {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	case "wasm":
		arch = "wasm32"
	}
	return ParseTarget(arch + "-unknown-" + runtime.GOOS)
}

// Constrained reports whether arch names a sandboxed web architecture:
// no dynamic linker, no SIMD assembly and no native threads.
func Constrained(arch string) bool {
	switch arch {
	case "wasm32", "wasm64", "wasm":
		return true
	default:
		return false
	}
}

// MSVC reports whether the target uses the MSVC toolchain conventions.
func (t Target) MSVC() bool {
	return t.OS == "windows" && t.Env == "msvc"
}

// StaticLibrary returns the archive file name for the library base name.
func (t Target) StaticLibrary(base string) string {
	if t.MSVC() {
		return base + ".lib"
	}
	return "lib" + base + ".a"
}

// String returns the triple.
func (t Target) String() string {
	return t.Triple
}
