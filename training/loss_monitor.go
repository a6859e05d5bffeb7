package training

import (
	"github.com/hupe1980/tensormesh/logging"
)

// TrainingLossMonitor reports the average training loss every few steps or
// seconds through the loop's logger.
type TrainingLossMonitor struct {
	*EveryFewStepMonitor

	logger logging.Logger

	sumLoss  float64
	numSteps int
}

// NewTrainingLossMonitor builds a loss reporter with the given cadence.
func NewTrainingLossMonitor(optFns ...func(*IntervalOptions)) (*TrainingLossMonitor, error) {
	m := &TrainingLossMonitor{logger: logging.NoOpLogger{}}
	base, err := NewEveryFewStepMonitor(m.report, optFns...)
	if err != nil {
		return nil, err
	}
	m.EveryFewStepMonitor = base
	return m, nil
}

// StartTraining captures the loop's logger and clears the accumulators.
func (m *TrainingLossMonitor) StartTraining(ctx Context) error {
	m.logger = ctx.logger()
	m.sumLoss = 0
	m.numSteps = 0
	return m.EveryFewStepMonitor.StartTraining(ctx)
}

// EndStep accumulates the loss before delegating to the cadence.
func (m *TrainingLossMonitor) EndStep(step int, loss float64) error {
	m.sumLoss += loss
	m.numSteps++
	return m.EveryFewStepMonitor.EndStep(step, loss)
}

func (m *TrainingLossMonitor) report(step int, _ float64) error {
	if m.numSteps == 0 {
		return nil
	}
	m.logger.Info("training loss", "step", step, "avg_loss", m.sumLoss/float64(m.numSteps), "steps", m.numSteps)
	m.sumLoss = 0
	m.numSteps = 0
	return nil
}
