// Package envscope scopes environment variable mutations to a single call.
package envscope

import (
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Env is a mutable set of environment variables.
type Env interface {
	Lookup(name string) (string, bool)
	Set(name, value string) error
	Unset(name string) error
	Environ() []string
}

// processMu serializes every guard over the process environment.
var processMu sync.Mutex

// Process is the environment of the running process.
type Process struct{}

var _ Env = Process{}

// Lookup returns the value of name and whether it is present.
func (Process) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Set sets name to value.
func (Process) Set(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set environment variable"), "name", name)
	}
	return nil
}

// Unset removes name.
func (Process) Unset(name string) error {
	if err := os.Unsetenv(name); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unset environment variable"), "name", name)
	}
	return nil
}

// Environ returns the process environment as KEY=VALUE strings.
func (Process) Environ() []string {
	return os.Environ()
}

// Overlay layers process-local overrides on top of a base environment.
// The base is never written.
type Overlay struct {
	base  Env
	mu    sync.RWMutex
	set   map[string]string
	unset map[string]struct{}
}

var _ Env = (*Overlay)(nil)

// NewOverlay returns an empty overlay over base. A nil base reads the process environment.
func NewOverlay(base Env) *Overlay {
	if base == nil {
		base = Process{}
	}
	return &Overlay{
		base:  base,
		set:   make(map[string]string),
		unset: make(map[string]struct{}),
	}
}

// Lookup returns the overridden value of name, falling back to the base.
func (o *Overlay) Lookup(name string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, gone := o.unset[name]; gone {
		return "", false
	}
	if v, ok := o.set[name]; ok {
		return v, true
	}
	return o.base.Lookup(name)
}

// Set overrides name.
func (o *Overlay) Set(name, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.unset, name)
	o.set[name] = value
	return nil
}

// Unset hides name, including any base value.
func (o *Overlay) Unset(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.set, name)
	o.unset[name] = struct{}{}
	return nil
}

// Environ returns the base environment with the overrides applied.
// Base entries keep their order; new keys follow in sorted order.
func (o *Overlay) Environ() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	seen := make(map[string]struct{}, len(o.set))
	var out []string
	for _, entry := range o.base.Environ() {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, gone := o.unset[k]; gone {
			continue
		}
		if v, ok := o.set[k]; ok {
			out = append(out, k+"="+v)
			seen[k] = struct{}{}
			continue
		}
		out = append(out, entry)
	}

	var added []string
	for k := range o.set {
		if _, ok := seen[k]; !ok {
			added = append(added, k)
		}
	}
	slices.Sort(added)
	for _, k := range added {
		out = append(out, k+"="+o.set[k])
	}
	return out
}
