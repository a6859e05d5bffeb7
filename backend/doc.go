// Package backend contains concrete implementations of core.Backend.
//
// The canonical Backend interface lives in the core package to keep domain
// contracts central. Implementation packages like this one provide the
// storage side of a session: the in-memory backend here serves tests,
// examples and single-process prototypes, while real numeric backends
// (GPU runtimes, tensor libraries) implement the same interface elsewhere.
//
// Callers should depend on core.Backend rather than concrete types so they
// can substitute alternative backends in tests or production.
package backend
