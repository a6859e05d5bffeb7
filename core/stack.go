package core

// Stack is an ordered sequence of active contexts of one kind. Entries are
// pushed and popped strictly LIFO, matched to scoped-activation blocks. A
// stack is owned by a single thread of control and is deliberately not
// synchronized; cross-thread sharing is a misuse.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top entry or fails with ErrEmptyStack.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmptyStack
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

// Current returns the top entry without removing it or fails with
// ErrEmptyStack.
func (s *Stack[T]) Current() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmptyStack
	}
	return s.items[len(s.items)-1], nil
}

// Empty reports whether the stack holds no entries.
func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}

// Len returns the number of active entries.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
