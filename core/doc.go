// Package core contains the central contracts of tensormesh: the
// thread-scoped context Registry, hierarchical name scopes, the computation
// Graph with its variable registry and cross-session last-value cache, the
// Session lifecycle with its value-resolution chain, and the session Memo.
//
// Contracts live here so implementation packages (backend, checkpoint,
// training) can depend on a single central package without cycles. Callers
// should depend on the interfaces defined here (notably Backend) rather than
// concrete implementations so they can substitute alternatives in tests.
//
// A Registry and everything activated on it belong to a single thread of
// control. A Graph, once constructed, may be shared across threads for
// read-only variable lookup, but its last-value cache and any Session bound
// to it require external synchronization when shared.
package core
