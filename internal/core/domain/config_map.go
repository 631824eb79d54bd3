package domain

import (
	"iter"
	"slices"
)

// ValueKind is the type tag of a configuration value.
type ValueKind int

const (
	// KindString is a free-form string define.
	KindString ValueKind = iota
	// KindBool is an on/off switch.
	KindBool
	// KindPath is a filesystem path.
	KindPath
)

// Value is a single configuration value.
type Value struct {
	Kind ValueKind
	Str  string
	Bool bool
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// PathValue returns a path value.
func PathValue(p string) Value { return Value{Kind: KindPath, Str: p} }

// String renders the value the way build tools expect it. Booleans render as ON or OFF.
func (v Value) String() string {
	if v.Kind == KindBool {
		if v.Bool {
			return "ON"
		}
		return "OFF"
	}
	return v.Str
}

// ConfigMap is an ordered flag-name to value mapping.
// Writes to an existing key replace the value but keep the key's first position.
// A frozen map panics on write.
type ConfigMap struct {
	keys   []string
	values map[string]Value
	frozen bool
}

// NewConfigMap creates an empty, writable ConfigMap.
func NewConfigMap() *ConfigMap {
	return &ConfigMap{values: make(map[string]Value)}
}

// Set writes key. Last write wins.
func (m *ConfigMap) Set(key string, v Value) *ConfigMap {
	if m.frozen {
		panic("domain: write to frozen config map: " + key)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// SetString writes a string value.
func (m *ConfigMap) SetString(key, s string) *ConfigMap { return m.Set(key, StringValue(s)) }

// SetBool writes a boolean value.
func (m *ConfigMap) SetBool(key string, b bool) *ConfigMap { return m.Set(key, BoolValue(b)) }

// SetPath writes a path value.
func (m *ConfigMap) SetPath(key, p string) *ConfigMap { return m.Set(key, PathValue(p)) }

// Merge writes every entry of other into m in other's order.
func (m *ConfigMap) Merge(other *ConfigMap) *ConfigMap {
	if other == nil {
		return m
	}
	for k, v := range other.All() {
		m.Set(k, v)
	}
	return m
}

// Get returns the value of key.
func (m *ConfigMap) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m *ConfigMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *ConfigMap) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *ConfigMap) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Frozen reports whether the map rejects writes.
func (m *ConfigMap) Frozen() bool {
	return m != nil && m.frozen
}

// Clone returns a writable copy.
func (m *ConfigMap) Clone() *ConfigMap {
	c := NewConfigMap()
	c.Merge(m)
	return c
}

// Freeze returns a read-only copy. Further writes to m do not affect it.
func (m *ConfigMap) Freeze() *ConfigMap {
	c := m.Clone()
	c.frozen = true
	return c
}
