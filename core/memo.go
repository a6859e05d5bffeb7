package core

import (
	"sort"
	"strings"
	"sync"
)

// memoState is the storage shared by a memo and all of its prefixed views.
type memoState struct {
	mu     sync.RWMutex
	values map[string]Value
	dirty  bool
}

// Memo is a flat key/value store attached to a session and persisted
// alongside checkpoints. Collaborators namespace their keys via WithPrefix
// so independent consumers (e.g. training monitors) never collide.
//
// The memo tracks a dirty flag: any mutation after a load or save marks it
// dirty, and re-saving an unchanged memo is a no-op on disk.
type Memo struct {
	state  *memoState
	prefix string
}

func newMemo() *Memo {
	return &Memo{state: &memoState{values: make(map[string]Value)}}
}

func (m *Memo) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + "." + k
}

// WithPrefix returns a view of the memo whose keys are namespaced under the
// given prefix. The view shares storage and the dirty flag with its parent;
// nested prefixes compose with ".".
func (m *Memo) WithPrefix(prefix string) *Memo {
	return &Memo{state: m.state, prefix: m.key(prefix)}
}

// Get returns the value stored under the key and whether it exists.
func (m *Memo) Get(key string) (Value, bool) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	v, ok := m.state.values[m.key(key)]
	return v, ok
}

// Has reports whether the key exists.
func (m *Memo) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores the value under the key and marks the memo dirty.
func (m *Memo) Set(key string, value Value) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.values[m.key(key)] = value
	m.state.dirty = true
}

// Delete removes the key if present, marking the memo dirty when it was.
func (m *Memo) Delete(key string) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	k := m.key(key)
	if _, ok := m.state.values[k]; ok {
		delete(m.state.values, k)
		m.state.dirty = true
	}
}

// Keys returns the sorted keys visible through this view, with the view's
// prefix stripped.
func (m *Memo) Keys() []string {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	want := ""
	if m.prefix != "" {
		want = m.prefix + "."
	}
	keys := make([]string, 0, len(m.state.values))
	for k := range m.state.values {
		if strings.HasPrefix(k, want) {
			keys = append(keys, strings.TrimPrefix(k, want))
		}
	}
	sort.Strings(keys)
	return keys
}

// Dirty reports whether the memo was mutated since the last load or save.
func (m *Memo) Dirty() bool {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	return m.state.dirty
}

// snapshot returns a copy of the full (unprefixed) content.
func (m *Memo) snapshot() map[string]Value {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()
	out := make(map[string]Value, len(m.state.values))
	for k, v := range m.state.values {
		out[k] = v
	}
	return out
}

// load replaces the full content and marks the memo clean.
func (m *Memo) load(values map[string]Value) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.values = make(map[string]Value, len(values))
	for k, v := range values {
		m.state.values[k] = v
	}
	m.state.dirty = false
}

// markClean clears the dirty flag after a successful save.
func (m *Memo) markClean() {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.dirty = false
}
