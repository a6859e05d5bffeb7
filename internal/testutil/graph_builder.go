package testutil

import (
	"testing"

	"github.com/hupe1980/tensormesh/core"
)

// QuadGraph is a graph with one variable per load-bearing tag combination:
// A trainable (init 1), B persistent (init 2), C resumable (init 3) and D
// untagged (init 4). All values are float64 so they survive the JSON round
// trip of the checkpoint format unchanged.
type QuadGraph struct {
	Graph      *core.Graph
	A, B, C, D core.Variable
}

// Vars returns the four handles in declaration order.
func (q QuadGraph) Vars() []core.Variable {
	return []core.Variable{q.A, q.B, q.C, q.D}
}

// NewQuadGraph declares the quad variables on a fresh graph activated on the
// registry for the duration of the call.
func NewQuadGraph(t *testing.T, reg *core.Registry) QuadGraph {
	t.Helper()

	g := core.NewGraph()
	release := g.AsDefault(reg)
	defer release()

	declare := func(name string, init float64, tags core.Tags) core.Variable {
		v, err := g.DeclareVariable(reg, name, core.Shape{}, core.ConstInitializer(init), tags)
		if err != nil {
			t.Fatalf("declare %s: %v", name, err)
		}
		return v
	}

	return QuadGraph{
		Graph: g,
		A:     declare("a", 1, core.Tags{Trainable: true}),
		B:     declare("b", 2, core.Tags{Persistent: true}),
		C:     declare("c", 3, core.Tags{Resumable: true}),
		D:     declare("d", 4, core.Tags{}),
	}
}
