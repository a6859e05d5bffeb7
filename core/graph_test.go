package core

import (
	"errors"
	"testing"
)

func TestDeclareVariableRequiresActiveGraph(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	if _, err := g.DeclareVariable(r, "w", Shape{2, 2}, ConstInitializer(0.0), Tags{}); !errors.Is(err, ErrNoActiveGraph) {
		t.Fatalf("expected ErrNoActiveGraph, got %v", err)
	}

	// another graph being active does not make g active
	other := NewGraph()
	release := other.AsDefault(r)
	defer release()
	if _, err := g.DeclareVariable(r, "w", Shape{2, 2}, ConstInitializer(0.0), Tags{}); !errors.Is(err, ErrNoActiveGraph) {
		t.Fatalf("expected ErrNoActiveGraph for inactive graph, got %v", err)
	}
}

func TestDeclareVariableResolvesScope(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	defer release()

	releaseScope, err := r.EnterScope("dense")
	if err != nil {
		t.Fatalf("enter scope: %v", err)
	}
	defer releaseScope()

	v, err := g.DeclareVariable(r, "w", Shape{4, 4}, ConstInitializer(0.0), Tags{Trainable: true})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	info, err := g.Info(v)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.FullName != "dense/w" {
		t.Fatalf("expected full name 'dense/w', got %q", info.FullName)
	}
	if got, ok := g.VariableByName("dense/w"); !ok || got != v {
		t.Fatalf("VariableByName mismatch")
	}
}

func TestDeclareVariableDuplicateAndInvalid(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	defer release()

	if _, err := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(0.0), Tags{}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(0.0), Tags{}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := g.DeclareVariable(r, "2w", Shape{}, ConstInitializer(0.0), Tags{}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	// the same local name in a different scope is a different full name
	releaseScope, err := r.EnterScope("other")
	if err != nil {
		t.Fatalf("enter scope: %v", err)
	}
	defer releaseScope()
	if _, err := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(0.0), Tags{}); err != nil {
		t.Fatalf("declare in scope: %v", err)
	}
}

func TestVariablesTagQuery(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	defer release()

	a, _ := g.DeclareVariable(r, "a", Shape{}, ConstInitializer(0.0), Tags{Trainable: true})
	b, _ := g.DeclareVariable(r, "b", Shape{}, ConstInitializer(0.0), Tags{Trainable: true, Regularizable: true})
	c, _ := g.DeclareVariable(r, "c", Shape{}, ConstInitializer(0.0), Tags{Persistent: true, Extra: []string{"frozen"}})

	all := g.Variables(nil)
	if len(all) != 3 || all[0] != a || all[1] != b || all[2] != c {
		t.Fatalf("expected declaration order [a b c], got %v", all)
	}

	trainable := g.Variables(TagQuery{TagTrainable: true})
	if len(trainable) != 2 || trainable[0] != a || trainable[1] != b {
		t.Fatalf("unexpected trainable set %v", trainable)
	}

	// absent tags are treated as false
	plain := g.Variables(TagQuery{TagTrainable: true, TagRegularizable: false})
	if len(plain) != 1 || plain[0] != a {
		t.Fatalf("unexpected filtered set %v", plain)
	}

	frozen := g.Variables(TagQuery{"frozen": true})
	if len(frozen) != 1 || frozen[0] != c {
		t.Fatalf("extra tags should participate in queries, got %v", frozen)
	}
}

func TestDeclareVariableRequiresInitializer(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	defer release()

	if _, err := g.DeclareVariable(r, "w", Shape{}, nil, Tags{}); !errors.Is(err, ErrNoInitializer) {
		t.Fatalf("expected ErrNoInitializer, got %v", err)
	}
	// the failed declaration must not reserve the name
	if _, err := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(0.0), Tags{}); err != nil {
		t.Fatalf("declare after rejected initializer: %v", err)
	}
}

func TestInfoRejectsZeroHandle(t *testing.T) {
	g := NewGraph()
	if _, err := g.Info(Variable{}); !errors.Is(err, ErrUnknownVariable) {
		t.Fatalf("expected ErrUnknownVariable for zero handle, got %v", err)
	}
}

func TestInfoRejectsForeignHandle(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	v, err := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(0.0), Tags{})
	release()
	if err != nil {
		t.Fatalf("declare: %v", err)
	}

	other := NewGraph()
	if _, err := other.Info(v); !errors.Is(err, ErrUnknownVariable) {
		t.Fatalf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestLastValueAbsentUntilRecorded(t *testing.T) {
	r := NewRegistry()
	g := NewGraph()
	release := g.AsDefault(r)
	defer release()

	v, _ := g.DeclareVariable(r, "w", Shape{}, ConstInitializer(1.0), Tags{Trainable: true})
	if _, ok := g.LastValue(v); ok {
		t.Fatalf("last value must be absent before any session recorded one")
	}
	g.recordLastValue(v, 5.0)
	val, ok := g.LastValue(v)
	if !ok || val != 5.0 {
		t.Fatalf("expected recorded value 5, got %v (%v)", val, ok)
	}
}
