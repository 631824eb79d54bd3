package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// buildIgnores are never part of a fingerprint.
var buildIgnores = []string{"build", "_build", "out"}

// Hasher fingerprints steps.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the step definition and its source tree. Build
// description files are hashed by content, every other file by path, size and
// modification time. For direct-compile steps only the explicit sources and
// templates are hashed, by content.
func (h *Hasher) Fingerprint(step *domain.Step) (string, error) {
	hasher := xxhash.New()

	h.hashDefinition(step, hasher)

	var err error
	if step.Tool == domain.ToolCompile {
		err = h.hashExplicitInputs(step, hasher)
	} else {
		err = h.hashSourceTree(step.SourceDir, hasher)
	}
	if err != nil {
		return "", zerr.With(err, "step", step.Name.String())
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{0})
}

func writeSection(w io.Writer, values []string) {
	for _, v := range values {
		writeField(w, v)
	}
	_, _ = w.Write([]byte{0})
}

func (h *Hasher) hashDefinition(step *domain.Step, w io.Writer) {
	writeField(w, step.Name.String())
	writeField(w, string(step.Tool))
	writeField(w, step.Target.Triple)
	writeField(w, step.SourceDir)
	writeField(w, step.OutputDir)
	writeField(w, step.Library)

	for k, v := range step.Config.All() {
		writeField(w, fmt.Sprintf("%s:%d=%s", k, v.Kind, v.String()))
	}
	_, _ = w.Write([]byte{0})

	writeSection(w, step.Args)
	deps := make([]string, len(step.Dependencies))
	for i, d := range step.Dependencies {
		deps[i] = d.String()
	}
	writeSection(w, deps)
	writeSection(w, step.Sources)
	writeSection(w, step.IncludeDirs)
	writeSection(w, step.Headers)

	for _, tpl := range step.Templates {
		writeField(w, tpl.Source)
		writeField(w, tpl.Output)
		keys := make([]string, 0, len(tpl.Values))
		for k := range tpl.Values {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			writeField(w, k+"="+tpl.Values[k])
		}
	}
	_, _ = w.Write([]byte{0})
}

// isBuildDescription matches the files cmake and autotools read to configure a tree.
func isBuildDescription(name string) bool {
	switch name {
	case "CMakeLists.txt", "configure", "configure.ac", "Makefile.am", "Makefile.in":
		return true
	}
	return strings.HasSuffix(name, ".cmake") || strings.HasSuffix(name, ".cmake.in")
}

func (h *Hasher) hashSourceTree(sourceDir string, w io.Writer) error {
	if _, err := os.Stat(sourceDir); err != nil {
		// A missing tree is reported by the builder.
		writeField(w, "missing")
		return nil
	}
	for path := range h.walker.WalkFiles(sourceDir, buildIgnores, nil) {
		var err error
		if isBuildDescription(filepath.Base(path)) {
			err = h.hashFile(sourceDir, path, w)
		} else {
			err = hashMetadata(sourceDir, path, w)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func hashMetadata(root, path string, w io.Writer) error {
	info, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	writeField(w, relPath(root, path))
	if err := binary.Write(w, binary.LittleEndian, [2]int64{info.Size(), info.ModTime().UnixNano()}); err != nil {
		return zerr.Wrap(err, "failed to write metadata to digest")
	}
	return nil
}

func (h *Hasher) hashExplicitInputs(step *domain.Step, w io.Writer) error {
	paths := slices.Clone(step.Sources)
	paths = append(paths, step.Headers...)
	for _, tpl := range step.Templates {
		paths = append(paths, tpl.Source)
	}
	for _, rel := range paths {
		path := filepath.Join(step.SourceDir, rel)
		if _, err := os.Stat(path); err != nil {
			writeField(w, "missing:"+rel)
			continue
		}
		if err := h.hashFile(step.SourceDir, path, w); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(root, path string, w io.Writer) error {
	writeField(w, relPath(root, path))

	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

