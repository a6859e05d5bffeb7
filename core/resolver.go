package core

// valueSource is one strategy in the session's value-resolution chain. Each
// source either produces the effective initial value for a variable or
// declines; sources are tried in strict priority order and the first hit
// wins. Modeling the priority chain this way keeps the policy testable in
// isolation and lets new sources slot in without touching existing ones.
type valueSource interface {
	name() string
	resolve(v Variable, info VariableInfo) (Value, bool)
}

// feedSource serves explicit per-session overrides. It always wins.
type feedSource struct {
	values map[string]Value // variable id -> value
}

func newFeedSource(feed map[Variable]Value) feedSource {
	values := make(map[string]Value, len(feed))
	for v, val := range feed {
		values[v.id] = val
	}
	return feedSource{values: values}
}

func (s feedSource) name() string { return "feed" }

func (s feedSource) resolve(v Variable, _ VariableInfo) (Value, bool) {
	val, ok := s.values[v.id]
	return val, ok
}

// initializerSource invokes the variable's own initializer. It terminates
// the chain and also serves the force-reinitialize mode, where it is placed
// directly after the feed source.
type initializerSource struct{}

func (initializerSource) name() string { return "initializer" }

func (initializerSource) resolve(_ Variable, info VariableInfo) (Value, bool) {
	if info.Init == nil {
		return nil, false
	}
	return info.Init(), true
}

// snapshotSource serves values restored from the most recent checkpoint
// variables-file, keyed by full name. Only checkpoint-qualifying tags are
// eligible; the snapshot never contains anything else, but the tag gate
// keeps a stale or foreign file from leaking values into unqualified
// variables.
type snapshotSource struct {
	values map[string]Value // full name -> value
}

func (s snapshotSource) name() string { return "checkpoint" }

func (s snapshotSource) resolve(_ Variable, info VariableInfo) (Value, bool) {
	if !info.Tags.Checkpointable() {
		return nil, false
	}
	val, ok := s.values[info.FullName]
	return val, ok
}

// cacheSource serves the graph's last-value cache, possible only for
// trainable or persistent variables.
type cacheSource struct {
	graph *Graph
}

func (s cacheSource) name() string { return "graph cache" }

func (s cacheSource) resolve(v Variable, info VariableInfo) (Value, bool) {
	if !info.Tags.GraphResident() {
		return nil, false
	}
	return s.graph.LastValue(v)
}
