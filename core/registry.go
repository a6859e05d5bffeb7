package core

import "fmt"

// Registry owns one context stack per kind (graph, scope, session) for a
// single thread of control. It is the explicit, injectable replacement for
// ambient globals: code anywhere can ask the registry what graph, scope or
// session is currently active without threading them through every call.
//
// Each thread of control constructs its own Registry; registries are never
// shared across threads and are not synchronized. Tests construct isolated
// registries so nothing leaks between cases.
type Registry struct {
	graphs   *Stack[*Graph]
	scopes   *Stack[*NameScope]
	sessions *Stack[*Session]
}

// NewRegistry returns a registry with empty graph, scope and session stacks.
func NewRegistry() *Registry {
	return &Registry{
		graphs:   NewStack[*Graph](),
		scopes:   NewStack[*NameScope](),
		sessions: NewStack[*Session](),
	}
}

// CurrentGraph returns the innermost active graph.
func (r *Registry) CurrentGraph() (*Graph, error) {
	g, err := r.graphs.Current()
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	return g, nil
}

// CurrentScope returns the innermost active name scope.
func (r *Registry) CurrentScope() (*NameScope, error) {
	s, err := r.scopes.Current()
	if err != nil {
		return nil, fmt.Errorf("scope: %w", err)
	}
	return s, nil
}

// CurrentSession returns the innermost active session.
func (r *Registry) CurrentSession() (*Session, error) {
	s, err := r.sessions.Current()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// EnterScope activates a name scope nested under the current one (or at the
// root when none is active) and returns a release func that must run on
// every exit path, typically via defer. The name must match the identifier
// pattern.
func (r *Registry) EnterScope(name string) (func(), error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	parent, _ := r.scopes.Current()
	scope := &NameScope{parent: parent, name: name}
	r.scopes.Push(scope)
	return func() { r.scopes.Pop() }, nil //nolint:errcheck // matched to the push above
}

// ResolveName resolves a local name against the active scope chain. With no
// scope active the local name is returned as-is (still validated).
func (r *Registry) ResolveName(local string) (string, error) {
	scope, err := r.scopes.Current()
	if err != nil {
		if err := ValidateName(local); err != nil {
			return "", err
		}
		return local, nil
	}
	return scope.Resolve(local)
}

// DeclareVariable declares a variable on the currently active graph,
// resolving its full name via the active scope chain.
func (r *Registry) DeclareVariable(name string, shape Shape, init Initializer, tags Tags) (Variable, error) {
	g, err := r.graphs.Current()
	if err != nil {
		return Variable{}, fmt.Errorf("declare %q: %w", name, ErrNoActiveGraph)
	}
	return g.DeclareVariable(r, name, shape, init, tags)
}
