// Package cas implements the build info store that records step fingerprints.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/heifsys/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// StateDir is the directory under the output root holding the store.
	StateDir = ".heifsys"
	// StateFile is the store's file name.
	StateFile = "state.json"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.BuildInfo
}

// StatePath returns the store location for an output root.
func StatePath(outputRoot string) string {
	return filepath.Join(outputRoot, StateDir, StateFile)
}

// Open opens the store living under outputRoot. It satisfies ports.StoreFactory.
func Open(outputRoot string) (ports.BuildInfoStore, error) {
	return NewStore(StatePath(outputRoot))
}

// NewStore creates a new BuildInfoStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.BuildInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read build info store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal build info store"), "path", s.path)
	}

	return nil
}

// save writes the cache atomically. Callers must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build info store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for build info store")
	}

	tmp, err := os.CreateTemp(dir, StateFile+".*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary build info store")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write build info store")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close build info store")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace build info store")
	}

	return nil
}

// Get retrieves the build info for a given step name.
func (s *Store) Get(stepName string) (*domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[stepName]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info and persists the store.
func (s *Store) Put(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[info.StepName] = info
	return s.save()
}
