package envscope

import (
	"sync"

	"go.trai.ch/zerr"
)

// Guard serializes scoped mutations of one environment.
type Guard struct {
	env Env
	mu  *sync.Mutex
}

// NewGuard returns a guard over env. Guards over the process environment share one lock.
func NewGuard(env Env) *Guard {
	if env == nil {
		env = Process{}
	}
	mu := &sync.Mutex{}
	if _, ok := env.(Process); ok {
		mu = &processMu
	}
	return &Guard{env: env, mu: mu}
}

// Env returns the guarded environment.
func (g *Guard) Env() Env {
	return g.env
}

// snapshot is the prior state of one variable.
type snapshot struct {
	name    string
	value   string
	present bool
}

func capture(env Env, name string) snapshot {
	v, ok := env.Lookup(name)
	return snapshot{name: name, value: v, present: ok}
}

func (s snapshot) restore(env Env) error {
	if s.present {
		return env.Set(s.name, s.value)
	}
	return env.Unset(s.name)
}

// WithScopedVar sets name to value for the duration of body and then restores
// the prior state, present or absent, whether body returns an error or panics.
// Calls on the same guard never interleave.
func WithScopedVar[T any](g *Guard, name, value string, body func(Env) (T, error)) (result T, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prior := capture(g.env, name)
	if err := g.env.Set(name, value); err != nil {
		return result, zerr.With(zerr.Wrap(err, "failed to scope variable"), "name", name)
	}
	defer func() {
		if rerr := prior.restore(g.env); rerr != nil && err == nil {
			err = zerr.With(zerr.Wrap(rerr, "failed to restore variable"), "name", name)
		}
	}()

	return body(g.env)
}
