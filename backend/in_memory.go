package backend

import (
	"fmt"
	"sync"

	"github.com/hupe1980/tensormesh/core"
)

// ErrNotAllocated is returned when a variable is read or written before the
// owning session allocated storage for it.
var ErrNotAllocated = fmt.Errorf("variable storage not allocated")

// InMemory is a trivial in-process core.Backend implementation useful for
// tests, examples and single-process prototypes. It keeps all values in a
// map guarded by an RWMutex. Values are stored by reference; callers that
// hand over mutable values and keep mutating them see those mutations
// reflected.
//
// This implementation is intentionally minimal; a production backend is
// expected to hold device-native storage and perform real transfers on
// Allocate, Read and Write.
type InMemory struct {
	mu     sync.RWMutex
	values map[core.Variable]core.Value
	shapes map[core.Variable]core.Shape
}

// NewInMemory returns an empty in-memory backend.
func NewInMemory() *InMemory {
	return &InMemory{
		values: make(map[core.Variable]core.Value),
		shapes: make(map[core.Variable]core.Shape),
	}
}

// Allocate creates storage for the variable with its initial value.
func (b *InMemory) Allocate(v core.Variable, shape core.Shape, value core.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[v] = value
	b.shapes[v] = shape.Clone()
	return nil
}

// Read returns the variable's current value or ErrNotAllocated.
func (b *InMemory) Read(v core.Variable) (core.Value, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.values[v]
	if !ok {
		return nil, ErrNotAllocated
	}
	return value, nil
}

// Write replaces the variable's current value or fails with ErrNotAllocated
// when the variable was never allocated.
func (b *InMemory) Write(v core.Variable, value core.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[v]; !ok {
		return ErrNotAllocated
	}
	b.values[v] = value
	return nil
}

// Shape returns the shape the variable was allocated with.
func (b *InMemory) Shape(v core.Variable) (core.Shape, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	shape, ok := b.shapes[v]
	return shape.Clone(), ok
}
