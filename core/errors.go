package core

import "fmt"

var (
	// ErrEmptyStack is returned when a "current context" query or a pop is
	// made against a context stack with no active entry. It is never
	// silently defaulted.
	ErrEmptyStack = fmt.Errorf("context stack is empty")

	// ErrInvalidName is returned when a scope or variable name violates the
	// identifier pattern (letters, digits, underscore; no leading digit).
	ErrInvalidName = fmt.Errorf("invalid name")

	// ErrDuplicateName is returned when two variables resolve to the same
	// full name within one graph.
	ErrDuplicateName = fmt.Errorf("duplicate variable name")

	// ErrNoActiveGraph is returned when a session is opened, or a variable
	// declared, with no graph activated on the registry.
	ErrNoActiveGraph = fmt.Errorf("no graph is activated")

	// ErrNoInitializer is returned when a variable is declared without an
	// initializer. Every variable must be able to produce a default value;
	// declaration is the point where that is enforced.
	ErrNoInitializer = fmt.Errorf("no initializer")

	// ErrUnknownVariable is returned when a handle does not belong to the
	// graph it is used against.
	ErrUnknownVariable = fmt.Errorf("unknown variable")

	// ErrNoBackend is returned when a session is opened without a backend.
	ErrNoBackend = fmt.Errorf("no backend configured")

	// ErrNoCheckpointPath is returned when Checkpoint is called on a session
	// that was opened without a checkpoint path.
	ErrNoCheckpointPath = fmt.Errorf("no checkpoint path configured")

	// ErrSessionOrder is returned when a session is closed while it is not
	// the innermost active session of its registry.
	ErrSessionOrder = fmt.Errorf("session closed out of order")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = fmt.Errorf("session is closed")
)
