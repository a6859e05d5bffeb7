package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/tensormesh/checkpoint"
	"github.com/hupe1980/tensormesh/logging"
)

// DefaultMaxCheckpoints bounds the rotating file sets when the caller does
// not configure a limit.
const DefaultMaxCheckpoints = 10

// SessionOptions configures an individual session.
type SessionOptions struct {
	// Backend receives the resolved initial values and serves all reads and
	// writes for the session's lifetime. Required.
	Backend Backend

	// FeedValues are explicit per-session overrides. A feed value always
	// wins over checkpoint, cache and initializer.
	FeedValues map[Variable]Value

	// ForceReinit makes every non-fed variable take its own initializer,
	// ignoring checkpoint and cache state.
	ForceReinit bool

	// CheckpointPath enables rotating persistence under this path prefix.
	// Empty disables checkpointing.
	CheckpointPath string

	// MaxCheckpoints bounds the number of files retained per kind. Defaults
	// to DefaultMaxCheckpoints; <= 0 keeps everything.
	MaxCheckpoints int

	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// WithBackend sets the session backend.
func WithBackend(b Backend) func(*SessionOptions) {
	return func(o *SessionOptions) { o.Backend = b }
}

// WithFeedValues sets explicit initial-value overrides for this session.
func WithFeedValues(feed map[Variable]Value) func(*SessionOptions) {
	return func(o *SessionOptions) { o.FeedValues = feed }
}

// WithForceReinit makes the session reinitialize every non-fed variable.
func WithForceReinit() func(*SessionOptions) {
	return func(o *SessionOptions) { o.ForceReinit = true }
}

// WithCheckpointPath enables checkpointing under the given path prefix.
func WithCheckpointPath(path string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.CheckpointPath = path }
}

// WithMaxCheckpoints bounds the retained files per kind.
func WithMaxCheckpoints(n int) func(*SessionOptions) {
	return func(o *SessionOptions) { o.MaxCheckpoints = n }
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) func(*SessionOptions) {
	return func(o *SessionOptions) { o.Logger = l }
}

// Session binds the registry's current graph to concrete backend values for
// a bounded period of use. On entry it resolves the effective initial value
// of every declared variable and pushes it into the backend; during its
// lifetime it proxies reads and writes; on Close it commits trainable and
// persistent values back into the graph's last-value cache.
//
// Sessions nest on the registry's session stack; callers always reference
// the innermost via Registry.CurrentSession. A session must be closed on the
// same thread of control, in LIFO order with any sessions opened after it.
type Session struct {
	id       string
	graph    *Graph
	registry *Registry
	backend  Backend
	memo     *Memo
	logger   logging.Logger

	store     *checkpoint.Store // nil when no checkpoint path is configured
	nextIndex int

	closed bool
}

// OpenSession opens a session against the registry's current graph. It fails
// with ErrNoActiveGraph when no graph is activated and with ErrNoBackend
// when no backend is supplied. When a checkpoint path is configured, the
// latest variables-file feeds value resolution and the latest memo-file
// seeds the session memo.
func OpenSession(r *Registry, optFns ...func(*SessionOptions)) (*Session, error) {
	opts := SessionOptions{
		MaxCheckpoints: DefaultMaxCheckpoints,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	g, err := r.graphs.Current()
	if err != nil {
		return nil, ErrNoActiveGraph
	}
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}

	s := &Session{
		id:        uuid.NewString(),
		graph:     g,
		registry:  r,
		backend:   opts.Backend,
		memo:      newMemo(),
		logger:    opts.Logger,
		nextIndex: 1,
	}

	var snapshot map[string]Value
	if opts.CheckpointPath != "" {
		s.store = checkpoint.NewStore(opts.CheckpointPath, opts.MaxCheckpoints)

		values, index, err := s.store.LoadLatest(checkpoint.KindVariables)
		if err != nil {
			return nil, err
		}
		snapshot = values
		s.nextIndex = index + 1

		memoValues, memoIndex, err := s.store.LoadLatest(checkpoint.KindMemo)
		if err != nil {
			return nil, err
		}
		if memoIndex > 0 {
			s.memo.load(memoValues)
		}
	}

	if err := s.resolveInitialValues(opts, snapshot); err != nil {
		return nil, err
	}

	r.sessions.Push(s)
	s.logger.Debug("session opened", "session_id", s.id, "graph_id", g.id, "next_checkpoint_index", s.nextIndex)
	return s, nil
}

// resolveInitialValues computes each variable's effective starting value via
// the ordered source chain and allocates backend storage for it.
func (s *Session) resolveInitialValues(opts SessionOptions, snapshot map[string]Value) error {
	sources := []valueSource{newFeedSource(opts.FeedValues)}
	if opts.ForceReinit {
		sources = append(sources, initializerSource{})
	}
	sources = append(sources,
		snapshotSource{values: snapshot},
		cacheSource{graph: s.graph},
		initializerSource{},
	)

	for _, v := range s.graph.Variables(nil) {
		info, err := s.graph.Info(v)
		if err != nil {
			return err
		}
		resolved := false
		for _, src := range sources {
			val, ok := src.resolve(v, info)
			if !ok {
				continue
			}
			if err := s.backend.Allocate(v, info.Shape, val); err != nil {
				return fmt.Errorf("allocate %q: %w", info.FullName, err)
			}
			s.logger.Debug("resolved initial value", "variable", info.FullName, "source", src.name())
			resolved = true
			break
		}
		if !resolved {
			return fmt.Errorf("resolve %q: %w", info.FullName, ErrNoInitializer)
		}
	}
	return nil
}

// ID returns the session's unique identity.
func (s *Session) ID() string {
	return s.id
}

// Graph returns the graph the session is bound to.
func (s *Session) Graph() *Graph {
	return s.graph
}

// Memo returns the session's memo.
func (s *Session) Memo() *Memo {
	return s.memo
}

// NextCheckpointIndex returns the index the next Checkpoint call will write.
func (s *Session) NextCheckpointIndex() int {
	return s.nextIndex
}

func (s *Session) checkVariable(v Variable) (VariableInfo, error) {
	if s.closed {
		return VariableInfo{}, ErrSessionClosed
	}
	return s.graph.Info(v)
}

// Value reads the variable's current backend value.
func (s *Session) Value(v Variable) (Value, error) {
	if _, err := s.checkVariable(v); err != nil {
		return nil, err
	}
	return s.backend.Read(v)
}

// Values reads several variables in order.
func (s *Session) Values(vars ...Variable) ([]Value, error) {
	out := make([]Value, len(vars))
	for i, v := range vars {
		val, err := s.Value(v)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// SetValue writes the variable's backend value.
func (s *Session) SetValue(v Variable, value Value) error {
	info, err := s.checkVariable(v)
	if err != nil {
		return err
	}
	if err := s.backend.Write(v, value); err != nil {
		return fmt.Errorf("write %q: %w", info.FullName, err)
	}
	return nil
}

// SetValues writes several variables.
func (s *Session) SetValues(values map[Variable]Value) error {
	for v, val := range values {
		if err := s.SetValue(v, val); err != nil {
			return err
		}
	}
	return nil
}

// Checkpoint snapshots the current values of every trainable, persistent or
// resumable variable into a new variables-file at the next index, writes the
// memo only if it was mutated since the last load or save, advances the
// index, and prunes each file kind independently to the retention limit.
func (s *Session) Checkpoint() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.store == nil {
		return ErrNoCheckpointPath
	}

	values := make(map[string]Value)
	for _, v := range s.graph.Variables(nil) {
		info, err := s.graph.Info(v)
		if err != nil {
			return err
		}
		if !info.Tags.Checkpointable() {
			continue
		}
		val, err := s.backend.Read(v)
		if err != nil {
			return fmt.Errorf("read %q: %w", info.FullName, err)
		}
		values[info.FullName] = val
	}

	index := s.nextIndex
	if err := s.store.Write(checkpoint.KindVariables, index, values); err != nil {
		return err
	}
	if s.memo.Dirty() {
		if err := s.store.Write(checkpoint.KindMemo, index, s.memo.snapshot()); err != nil {
			return err
		}
		s.memo.markClean()
	}
	s.nextIndex = index + 1
	s.logger.Info("checkpoint written", "session_id", s.id, "index", index, "variables", len(values))
	return nil
}

// Close deactivates the session and commits the final backend value of every
// trainable or persistent variable into the graph's last-value cache.
// Variables tagged only resumable, or untagged, are never written back;
// their only durability mechanism is an explicit checkpoint. Closing a
// session that is not the innermost active one fails with ErrSessionOrder.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	cur, err := s.registry.sessions.Current()
	if err != nil || cur != s {
		return ErrSessionOrder
	}

	// read every graph-resident value before mutating session or cache
	// state, so a backend failure leaves the session open and the cache
	// untouched; the caller may retry Close
	type residentValue struct {
		v   Variable
		val Value
	}
	var residents []residentValue
	for _, v := range s.graph.Variables(nil) {
		info, err := s.graph.Info(v)
		if err != nil {
			return err
		}
		if !info.Tags.GraphResident() {
			continue
		}
		val, err := s.backend.Read(v)
		if err != nil {
			return fmt.Errorf("read %q: %w", info.FullName, err)
		}
		residents = append(residents, residentValue{v: v, val: val})
	}

	s.registry.sessions.Pop() //nolint:errcheck // verified non-empty above
	s.closed = true
	for _, rv := range residents {
		s.graph.recordLastValue(rv.v, rv.val)
	}
	s.logger.Debug("session closed", "session_id", s.id)
	return nil
}
