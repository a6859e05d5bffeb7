package training

import (
	"fmt"
	"time"
)

// StepFunc is invoked by EveryFewStepMonitor when its cadence fires.
type StepFunc func(step int, loss float64) error

// IntervalOptions configures the cadence of an EveryFewStepMonitor.
type IntervalOptions struct {
	// Steps fires after this many steps since the last firing. 0 disables
	// the step cadence.
	Steps int
	// Every fires after this much wall-clock time since the last firing.
	// 0 disables the time cadence.
	Every time.Duration
}

// WithEverySteps sets the step cadence.
func WithEverySteps(n int) func(*IntervalOptions) {
	return func(o *IntervalOptions) { o.Steps = n }
}

// WithEveryDuration sets the wall-clock cadence.
func WithEveryDuration(d time.Duration) func(*IntervalOptions) {
	return func(o *IntervalOptions) { o.Every = d }
}

// EveryFewStepMonitor runs a callback every few steps or seconds, whichever
// cadence fires first. It is the base for periodic monitors such as
// CheckpointMonitor and TrainingLossMonitor.
type EveryFewStepMonitor struct {
	BaseMonitor

	steps int
	every time.Duration
	fire  StepFunc

	lastTime time.Time
	lastStep int
}

// NewEveryFewStepMonitor builds a periodic monitor around fire. At least one
// of the step or wall-clock cadences must be configured.
func NewEveryFewStepMonitor(fire StepFunc, optFns ...func(*IntervalOptions)) (*EveryFewStepMonitor, error) {
	var opts IntervalOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Steps <= 0 && opts.Every <= 0 {
		return nil, fmt.Errorf("at least one of a step or duration cadence must be configured")
	}
	return &EveryFewStepMonitor{steps: opts.Steps, every: opts.Every, fire: fire}, nil
}

// StartTraining resets the cadence to the loop's initial step.
func (m *EveryFewStepMonitor) StartTraining(ctx Context) error {
	m.lastTime = time.Now()
	m.lastStep = ctx.InitialStep
	return nil
}

// EndStep fires the callback when either cadence is due.
func (m *EveryFewStepMonitor) EndStep(step int, loss float64) error {
	stepDue := m.steps > 0 && step-m.lastStep >= m.steps
	timeDue := m.every > 0 && time.Since(m.lastTime) >= m.every
	if !stepDue && !timeDue {
		return nil
	}
	if err := m.fire(step, loss); err != nil {
		return err
	}
	m.lastTime = time.Now()
	m.lastStep = step
	return nil
}
