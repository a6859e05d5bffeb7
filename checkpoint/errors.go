package checkpoint

import "fmt"

// IOError reports a failed read or write of a checkpoint or memo file. A
// corrupt or unreadable latest file is surfaced as an IOError rather than
// silently skipped in favor of an older one: falling back would risk
// resuming training from stale, inconsistent state.
type IOError struct {
	Op   string // "read", "write", "scan", "prune"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("checkpoint %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
