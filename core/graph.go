package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Graph owns the set of declared variables, their metadata, and the
// cross-session last-value cache. Variables are declared only while the
// graph is the active context of a registry; the graph itself outlives any
// individual session bound to it.
//
// The last-value cache is the graph's only mutable state after declaration.
// It is populated exclusively by sessions at exit, and only for variables
// tagged trainable or persistent.
type Graph struct {
	id string

	mu     sync.RWMutex
	infos  map[string]*VariableInfo // variable id -> info
	byName map[string]Variable      // full name -> handle
	order  []Variable               // declaration order
	last   map[string]Value         // variable id -> last observed value
}

// NewGraph constructs an empty graph.
func NewGraph() *Graph {
	return &Graph{
		id:     uuid.NewString(),
		infos:  make(map[string]*VariableInfo),
		byName: make(map[string]Variable),
		last:   make(map[string]Value),
	}
}

// ID returns the graph's unique identity.
func (g *Graph) ID() string {
	return g.id
}

// AsDefault activates the graph on the registry and returns a release func
// that must run on every exit path, typically via defer.
func (g *Graph) AsDefault(r *Registry) func() {
	r.graphs.Push(g)
	return func() { r.graphs.Pop() } //nolint:errcheck // matched to the push above
}

// DeclareVariable registers a new variable on the graph. The graph must be
// the registry's current graph; the full name is resolved via the active
// scope chain and must be unique within the graph. No backend storage is
// allocated here; that is the session's job.
func (g *Graph) DeclareVariable(r *Registry, name string, shape Shape, init Initializer, tags Tags) (Variable, error) {
	cur, err := r.graphs.Current()
	if err != nil || cur != g {
		return Variable{}, fmt.Errorf("declare %q: %w", name, ErrNoActiveGraph)
	}
	full, err := r.ResolveName(name)
	if err != nil {
		return Variable{}, err
	}
	if init == nil {
		return Variable{}, fmt.Errorf("%w: %q", ErrNoInitializer, full)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.byName[full]; exists {
		return Variable{}, fmt.Errorf("%w: %q", ErrDuplicateName, full)
	}
	v := Variable{id: uuid.NewString(), graph: g}
	g.infos[v.id] = &VariableInfo{FullName: full, Shape: shape.Clone(), Tags: tags.clone(), Init: init}
	g.byName[full] = v
	g.order = append(g.order, v)
	return v, nil
}

// Info returns a copy of the variable's metadata.
func (g *Graph) Info(v Variable) (VariableInfo, error) {
	if v.IsZero() {
		return VariableInfo{}, fmt.Errorf("%w: zero handle", ErrUnknownVariable)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	info, ok := g.infos[v.id]
	if !ok || v.graph != g {
		return VariableInfo{}, fmt.Errorf("%w: %q", ErrUnknownVariable, v.id)
	}
	return info.clone(), nil
}

// Variables returns the handles matching all predicates of the query, in
// declaration order. A nil query matches every variable.
func (g *Graph) Variables(q TagQuery) []Variable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Variable, 0, len(g.order))
	for _, v := range g.order {
		if q.matches(g.infos[v.id].Tags) {
			out = append(out, v)
		}
	}
	return out
}

// VariableByName looks a handle up by its full name.
func (g *Graph) VariableByName(full string) (Variable, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.byName[full]
	return v, ok
}

// LastValue returns the most recently recorded value for the variable, or
// false if none was ever recorded (never-qualifying tags included).
func (g *Graph) LastValue(v Variable) (Value, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	val, ok := g.last[v.id]
	return val, ok
}

// recordLastValue overwrites the cache entry for the variable. Called only
// by a session at exit, only for trainable or persistent variables.
func (g *Graph) recordLastValue(v Variable, val Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[v.id] = val
}
