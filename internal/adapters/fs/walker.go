// Package fs provides file system adapters for walking and fingerprinting source trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the files under root in lexical order, skipping VCS
// directories and any entry whose name matches one of ignores.
// When keep is non-nil only files it accepts are yielded.
func (w *Walker) WalkFiles(root string, ignores []string, keep func(name string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path != root {
				if skip, action := w.skip(d, ignores); skip {
					return action
				}
			}

			if d.IsDir() {
				return nil
			}
			if keep != nil && !keep(d.Name()) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// skip reports whether the entry is excluded and what WalkDir should do about it.
func (w *Walker) skip(d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj" || name == ".hg") {
		return true, filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}
	return false, nil
}
