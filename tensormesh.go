// Package tensormesh provides a high-level façade over the core execution
// contexts (graphs, scopes, sessions) and their persistence. Most
// applications interact with this package by:
//  1. Creating a Workspace via New() (optionally overriding the backend
//     factory and logger)
//  2. Building a graph and declaring variables inside nested name scopes
//  3. Opening sessions against the graph, optionally with a checkpoint path,
//     and reading/training/mutating values through them
//
// The façade delegates all semantics to the core package while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a real numeric backend
// and a structured logger.
package tensormesh

import (
	"github.com/hupe1980/tensormesh/backend"
	"github.com/hupe1980/tensormesh/core"
	"github.com/hupe1980/tensormesh/logging"
)

// Options configures the Workspace.
type Options struct {
	// NewBackend produces the backend for each session that does not bring
	// its own. Defaults to fresh in-memory backends.
	NewBackend func() core.Backend

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Workspace is the high-level façade: one registry of context stacks for the
// calling thread of control plus the defaults every session starts from.
// Each thread of control creates its own Workspace; the graphs built on one
// may be shared read-only across threads, the workspace itself may not.
type Workspace struct {
	opts     Options
	registry *core.Registry
}

// New creates a Workspace with optional overrides.
func New(optFns ...func(o *Options)) *Workspace {
	opts := Options{
		NewBackend: func() core.Backend { return backend.NewInMemory() },
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Workspace{opts: opts, registry: core.NewRegistry()}
}

// Registry exposes the underlying context registry.
func (w *Workspace) Registry() *core.Registry {
	return w.registry
}

// NewGraph constructs a graph and activates it on the workspace registry,
// returning the graph and the matching release func for use with defer.
func (w *Workspace) NewGraph() (*core.Graph, func()) {
	g := core.NewGraph()
	return g, g.AsDefault(w.registry)
}

// EnterScope activates a name scope nested under the current one.
func (w *Workspace) EnterScope(name string) (func(), error) {
	return w.registry.EnterScope(name)
}

// DeclareVariable declares a variable on the current graph under the current
// scope chain.
func (w *Workspace) DeclareVariable(name string, shape core.Shape, init core.Initializer, tags core.Tags) (core.Variable, error) {
	return w.registry.DeclareVariable(name, shape, init, tags)
}

// OpenSession opens a session against the current graph, filling in the
// workspace defaults for backend and logger when the options leave them
// unset.
func (w *Workspace) OpenSession(optFns ...func(*core.SessionOptions)) (*core.Session, error) {
	withDefaults := func(o *core.SessionOptions) {
		o.Backend = w.opts.NewBackend()
		o.Logger = w.opts.Logger
	}
	return core.OpenSession(w.registry, append([]func(*core.SessionOptions){withDefaults}, optFns...)...)
}

// CurrentSession returns the innermost active session.
func (w *Workspace) CurrentSession() (*core.Session, error) {
	return w.registry.CurrentSession()
}
