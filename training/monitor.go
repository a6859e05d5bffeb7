package training

import (
	"github.com/hupe1980/tensormesh/core"
	"github.com/hupe1980/tensormesh/logging"
)

// Context describes the training loop a monitor is attached to. It is handed
// to every monitor at StartTraining.
type Context struct {
	// Session is the active session the loop trains in.
	Session *core.Session
	// Graph is the graph the session is bound to.
	Graph *core.Graph
	// BatchSize is the size of each step (mini-batch).
	BatchSize int
	// StepsInEpoch is the estimated number of steps in one epoch.
	StepsInEpoch int
	// MaxSteps is the hard limit of total steps.
	MaxSteps int
	// InitialStep is the step index this training starts at. A value > 0
	// indicates a training recovered from a checkpoint.
	InitialStep int
	// Logger defaults to a NoOpLogger when nil.
	Logger logging.Logger
}

func (c Context) logger() logging.Logger {
	if c.Logger == nil {
		return logging.NoOpLogger{}
	}
	return c.Logger
}

// Monitor watches a training process. The driving loop calls the lifecycle
// methods at the matching points; implementations are free to ignore any of
// them (embed BaseMonitor for no-op defaults).
type Monitor interface {
	// StartTraining announces that a training loop is about to start.
	StartTraining(ctx Context) error
	// EndTraining announces that the training loop has completed.
	EndTraining() error
	// StartEpoch announces that the epoch (0-based) is about to start.
	StartEpoch(epoch int)
	// EndEpoch announces the completed epoch and its average training loss.
	EndEpoch(epoch int, avgLoss float64)
	// StartStep announces that the step (0-based) is about to start.
	StartStep(step int)
	// EndStep announces the completed step and its training loss.
	EndStep(step int, loss float64) error
	// InducingStopping reports whether the monitor asks for early stopping.
	InducingStopping() bool
}

// BaseMonitor provides no-op implementations of every Monitor method. Embed
// it to implement only the callbacks a monitor needs.
type BaseMonitor struct{}

// StartTraining implements Monitor.
func (BaseMonitor) StartTraining(Context) error { return nil }

// EndTraining implements Monitor.
func (BaseMonitor) EndTraining() error { return nil }

// StartEpoch implements Monitor.
func (BaseMonitor) StartEpoch(int) {}

// EndEpoch implements Monitor.
func (BaseMonitor) EndEpoch(int, float64) {}

// StartStep implements Monitor.
func (BaseMonitor) StartStep(int) {}

// EndStep implements Monitor.
func (BaseMonitor) EndStep(int, float64) error { return nil }

// InducingStopping implements Monitor.
func (BaseMonitor) InducingStopping() bool { return false }

// Chain aggregates multiple monitors into one. Callbacks fan out in order;
// the first error aborts the fan-out. The chain induces early stopping as
// soon as any member does.
type Chain struct {
	monitors []Monitor
}

// NewChain builds a chain over the given monitors.
func NewChain(monitors ...Monitor) *Chain {
	return &Chain{monitors: monitors}
}

// StartTraining implements Monitor.
func (c *Chain) StartTraining(ctx Context) error {
	for _, m := range c.monitors {
		if err := m.StartTraining(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EndTraining implements Monitor.
func (c *Chain) EndTraining() error {
	for _, m := range c.monitors {
		if err := m.EndTraining(); err != nil {
			return err
		}
	}
	return nil
}

// StartEpoch implements Monitor.
func (c *Chain) StartEpoch(epoch int) {
	for _, m := range c.monitors {
		m.StartEpoch(epoch)
	}
}

// EndEpoch implements Monitor.
func (c *Chain) EndEpoch(epoch int, avgLoss float64) {
	for _, m := range c.monitors {
		m.EndEpoch(epoch, avgLoss)
	}
}

// StartStep implements Monitor.
func (c *Chain) StartStep(step int) {
	for _, m := range c.monitors {
		m.StartStep(step)
	}
}

// EndStep implements Monitor.
func (c *Chain) EndStep(step int, loss float64) error {
	for _, m := range c.monitors {
		if err := m.EndStep(step, loss); err != nil {
			return err
		}
	}
	return nil
}

// InducingStopping implements Monitor.
func (c *Chain) InducingStopping() bool {
	for _, m := range c.monitors {
		if m.InducingStopping() {
			return true
		}
	}
	return false
}
