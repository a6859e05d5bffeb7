package training

import (
	"github.com/hupe1980/tensormesh/core"
	"github.com/hupe1980/tensormesh/logging"
)

// CheckpointMonitor saves session checkpoints every few steps or seconds, so
// an externally interrupted training loses at most the work since the last
// firing. The session must have been opened with a checkpoint path.
type CheckpointMonitor struct {
	*EveryFewStepMonitor

	session *core.Session
	logger  logging.Logger
}

// NewCheckpointMonitor builds a checkpoint monitor with the given cadence.
func NewCheckpointMonitor(optFns ...func(*IntervalOptions)) (*CheckpointMonitor, error) {
	m := &CheckpointMonitor{logger: logging.NoOpLogger{}}
	base, err := NewEveryFewStepMonitor(m.save, optFns...)
	if err != nil {
		return nil, err
	}
	m.EveryFewStepMonitor = base
	return m, nil
}

// StartTraining captures the session and logger of the loop.
func (m *CheckpointMonitor) StartTraining(ctx Context) error {
	m.session = ctx.Session
	m.logger = ctx.logger()
	return m.EveryFewStepMonitor.StartTraining(ctx)
}

func (m *CheckpointMonitor) save(step int, _ float64) error {
	if err := m.session.Checkpoint(); err != nil {
		return err
	}
	m.logger.Info("checkpoint saved", "step", step)
	return nil
}
