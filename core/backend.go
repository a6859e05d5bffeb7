package core

// Backend is the numeric-backend collaborator. The core calls it to allocate
// backend-native storage for declared variables, and proxies session reads
// and writes straight through to it. Implementations live outside core (see
// the backend package for the in-memory reference implementation).
type Backend interface {
	// Allocate creates backend storage for the variable with the given
	// declared shape and resolved initial value. Called once per variable
	// at session entry.
	Allocate(v Variable, shape Shape, value Value) error

	// Read returns the variable's current backend value.
	Read(v Variable) (Value, error)

	// Write replaces the variable's current backend value.
	Write(v Variable, value Value) error
}
