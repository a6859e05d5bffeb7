package core

import "slices"

// Value is any backend value that can be serialized to and restored from the
// checkpoint file format. The core places no further constraint on the
// representation.
type Value = any

// Shape describes the declared dimensions of a variable. The core never
// interprets it; it is handed to the backend verbatim at allocation time.
type Shape []int

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Initializer produces a variable's default value. It is invoked lazily,
// only when no higher-priority value source (feed, checkpoint, graph cache)
// supplies one.
type Initializer func() Value

// ConstInitializer returns an initializer that always produces v.
func ConstInitializer(v Value) Initializer {
	return func() Value { return v }
}

// Names of the load-bearing tags. Tag-gated logic (graph cache, checkpoint
// eligibility) keys off these.
const (
	TagTrainable     = "trainable"
	TagPersistent    = "persistent"
	TagResumable     = "resumable"
	TagRegularizable = "regularizable"
)

// Tags is the set of named boolean attributes on a variable: a fixed field
// per well-known tag plus an open extension set of arbitrary string tags.
type Tags struct {
	// Trainable marks parameters updated by an optimizer. Trainable values
	// are cached on the graph at session exit and written to checkpoints.
	Trainable bool
	// Persistent marks values that survive across sessions like trainable
	// ones but are not subject to training (e.g. normalization statistics).
	Persistent bool
	// Resumable marks values written to checkpoints only; they never enter
	// the graph cache (e.g. optimizer slots, step counters).
	Resumable bool
	// Regularizable marks parameters eligible for weight regularization.
	Regularizable bool
	// Extra holds arbitrary additional tags.
	Extra []string
}

// Has reports whether the named tag is set.
func (t Tags) Has(name string) bool {
	switch name {
	case TagTrainable:
		return t.Trainable
	case TagPersistent:
		return t.Persistent
	case TagResumable:
		return t.Resumable
	case TagRegularizable:
		return t.Regularizable
	}
	return slices.Contains(t.Extra, name)
}

// GraphResident reports whether the variable qualifies for the graph's
// last-value cache.
func (t Tags) GraphResident() bool {
	return t.Trainable || t.Persistent
}

// Checkpointable reports whether the variable is written to and restored
// from checkpoint variables-files.
func (t Tags) Checkpointable() bool {
	return t.Trainable || t.Persistent || t.Resumable
}

func (t Tags) clone() Tags {
	c := t
	c.Extra = slices.Clone(t.Extra)
	return c
}

// TagQuery filters variables by tag predicates. Every entry must match: a
// tag mapped to true must be set, a tag mapped to false must be absent
// (absent tags are treated as false).
type TagQuery map[string]bool

func (q TagQuery) matches(t Tags) bool {
	for name, want := range q {
		if t.Has(name) != want {
			return false
		}
	}
	return true
}

// Variable is an opaque handle to a declared variable, owned by exactly one
// graph. Handles are comparable and usable as map keys.
type Variable struct {
	id    string
	graph *Graph
}

// ID returns the variable's unique identity within the process.
func (v Variable) ID() string {
	return v.id
}

// Graph returns the graph that declared the variable.
func (v Variable) Graph() *Graph {
	return v.graph
}

// IsZero reports whether the handle is the zero value (no declaration).
func (v Variable) IsZero() bool {
	return v.graph == nil
}

// VariableInfo describes one declared variable. It is immutable after
// declaration: the graph never changes a variable's tags or initializer.
type VariableInfo struct {
	// FullName is the scope-qualified name, unique within the graph.
	FullName string
	// Shape as declared.
	Shape Shape
	// Tags as declared.
	Tags Tags
	// Init produces the variable's default value.
	Init Initializer
}

func (i VariableInfo) clone() VariableInfo {
	c := i
	c.Shape = i.Shape.Clone()
	c.Tags = i.Tags.clone()
	return c
}
