package core

import (
	"errors"
	"testing"
)

func TestStackLIFO(t *testing.T) {
	s := NewStack[int]()
	if !s.Empty() {
		t.Fatalf("new stack should be empty")
	}
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Len() != 3 {
		t.Fatalf("expected len 3, got %d", s.Len())
	}
	cur, err := s.Current()
	if err != nil || cur != 3 {
		t.Fatalf("expected current 3, got %d (%v)", cur, err)
	}
	for _, want := range []int{3, 2, 1} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
	if !s.Empty() {
		t.Fatalf("stack should be empty after popping everything")
	}
}

func TestStackEmptyErrors(t *testing.T) {
	s := NewStack[string]()
	if _, err := s.Pop(); !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack from pop, got %v", err)
	}
	if _, err := s.Current(); !errors.Is(err, ErrEmptyStack) {
		t.Fatalf("expected ErrEmptyStack from current, got %v", err)
	}
}
