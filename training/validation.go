package training

import (
	"fmt"
	"math"

	"github.com/hupe1980/tensormesh/core"
	"github.com/hupe1980/tensormesh/logging"
)

// ErrNoValidationData is returned when a validation pass covers zero
// examples. Validators must honor this boundary contract instead of
// reporting a fabricated loss.
var ErrNoValidationData = fmt.Errorf("no validation data")

// Memo keys used by the ValidationMonitor under its prefix.
const (
	memoKeyBestLoss   = "best_valid_loss"
	memoKeyBestParams = "best_params"
)

// ValidateFunc performs one full validation pass and returns the validation
// loss together with the number of examples it covered.
type ValidateFunc func() (loss float64, examples int, err error)

// ValidationOptions configures a ValidationMonitor.
type ValidationOptions struct {
	// Steps is the validation interval. When 0 the monitor falls back to
	// the loop's StepsInEpoch.
	Steps int
	// StoppingSteps induces early stopping when no improvement was seen for
	// this many steps. 0 disables early stopping.
	StoppingSteps int
	// Params are the variables tracked by early stopping. Nil selects every
	// trainable variable of the graph; an empty non-nil slice disables
	// parameter tracking.
	Params []core.Variable
}

// WithValidationSteps sets the validation interval.
func WithValidationSteps(n int) func(*ValidationOptions) {
	return func(o *ValidationOptions) { o.Steps = n }
}

// WithStoppingSteps enables early stopping after n improvement-free steps.
func WithStoppingSteps(n int) func(*ValidationOptions) {
	return func(o *ValidationOptions) { o.StoppingSteps = n }
}

// WithParams selects the variables tracked by early stopping.
func WithParams(params []core.Variable) func(*ValidationOptions) {
	return func(o *ValidationOptions) { o.Params = params }
}

// ValidationMonitor computes the validation loss every few steps and keeps
// the best parameter values seen so far in the session memo, under its own
// prefix, so both survive checkpoint/resume cycles. When configured with
// stopping steps it induces early stopping once no improvement was achieved
// for that long; at the end of training it restores the best parameters.
type ValidationMonitor struct {
	BaseMonitor

	validate      ValidateFunc
	steps         int
	stoppingSteps int
	params        []core.Variable
	paramsGiven   bool

	session *core.Session
	graph   *core.Graph
	memo    *core.Memo
	logger  logging.Logger

	trainLossSum float64
	trainLossNum int

	actualSteps    int
	remainSteps    int
	remainStopping int
}

// NewValidationMonitor builds a validation monitor around the given pass.
func NewValidationMonitor(validate ValidateFunc, optFns ...func(*ValidationOptions)) *ValidationMonitor {
	var opts ValidationOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ValidationMonitor{
		validate:      validate,
		steps:         opts.Steps,
		stoppingSteps: opts.StoppingSteps,
		params:        opts.Params,
		paramsGiven:   opts.Params != nil,
		logger:        logging.NoOpLogger{},

		remainStopping: opts.StoppingSteps,
	}
}

// StartTraining binds the monitor to the loop's session and resumes its
// bookkeeping from the session memo.
func (m *ValidationMonitor) StartTraining(ctx Context) error {
	m.session = ctx.Session
	m.graph = ctx.Graph
	m.logger = ctx.logger()
	m.memo = ctx.Session.Memo().WithPrefix("ValidationMonitor")

	if !m.paramsGiven {
		m.params = m.graph.Variables(core.TagQuery{core.TagTrainable: true})
	}

	m.actualSteps = m.steps
	if m.actualSteps <= 0 {
		m.actualSteps = ctx.StepsInEpoch
	}
	if m.actualSteps <= 0 {
		m.actualSteps = 1
	}

	m.trainLossSum = 0
	m.trainLossNum = 0
	m.remainSteps = m.actualSteps - ctx.InitialStep%m.actualSteps
	if m.stoppingSteps > 0 {
		m.remainStopping = max(m.stoppingSteps, m.actualSteps) - ctx.InitialStep
	}
	return nil
}

// EndStep accumulates the training loss and validates when the interval has
// elapsed.
func (m *ValidationMonitor) EndStep(step int, loss float64) error {
	m.trainLossSum += loss
	m.trainLossNum++

	if m.remainSteps <= 0 {
		trainLoss := m.trainLossSum / float64(m.trainLossNum)
		if err := m.doValidation(step, trainLoss); err != nil {
			return err
		}
		m.remainSteps = m.actualSteps
		m.trainLossSum = 0
		m.trainLossNum = 0
	}

	m.remainSteps--
	if m.stoppingSteps > 0 {
		m.remainStopping--
	}
	return nil
}

func (m *ValidationMonitor) doValidation(step int, trainLoss float64) error {
	loss, examples, err := m.validate()
	if err != nil {
		return err
	}
	if examples == 0 {
		return ErrNoValidationData
	}

	improved := false
	if best, ok := m.bestLoss(); !ok || loss < best {
		improved = true
		m.memo.Set(memoKeyBestLoss, loss)
		if len(m.params) > 0 {
			snapshot := make(map[string]core.Value, len(m.params))
			for _, v := range m.params {
				info, err := m.graph.Info(v)
				if err != nil {
					return err
				}
				val, err := m.session.Value(v)
				if err != nil {
					return err
				}
				snapshot[info.FullName] = val
			}
			m.memo.Set(memoKeyBestParams, snapshot)
		}
		if m.stoppingSteps > 0 {
			m.remainStopping = m.stoppingSteps
		}
	}

	m.logger.Info("validation", "step", step, "train_loss", trainLoss, "valid_loss", loss, "improved", improved)
	return nil
}

// EndTraining performs a final validation when steps remain since the last
// one, then restores the best parameters found.
func (m *ValidationMonitor) EndTraining() error {
	if m.trainLossNum > 0 && m.remainSteps < m.actualSteps {
		if err := m.doValidation(-1, m.trainLossSum/float64(m.trainLossNum)); err != nil {
			return err
		}
	}

	if raw, ok := m.memo.Get(memoKeyBestParams); ok {
		if err := m.restoreParams(raw); err != nil {
			return err
		}
	}
	m.memo.Delete(memoKeyBestParams)
	m.memo.Delete(memoKeyBestLoss)
	return nil
}

// restoreParams writes the remembered best values back into the session.
// The snapshot arrives either live (map[string]core.Value) or decoded from a
// memo-file (map[string]any); both shapes are keyed by full variable name.
func (m *ValidationMonitor) restoreParams(raw core.Value) error {
	params, ok := raw.(map[string]core.Value)
	if !ok {
		return fmt.Errorf("unexpected best_params type %T", raw)
	}
	for full, val := range params {
		v, ok := m.graph.VariableByName(full)
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrUnknownVariable, full)
		}
		if err := m.session.SetValue(v, val); err != nil {
			return err
		}
	}
	return nil
}

func (m *ValidationMonitor) bestLoss() (float64, bool) {
	raw, ok := m.memo.Get(memoKeyBestLoss)
	if !ok {
		return math.Inf(1), false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return math.Inf(1), false
	}
}

// InducingStopping reports whether the improvement-free budget is exhausted.
func (m *ValidationMonitor) InducingStopping() bool {
	return m.stoppingSteps > 0 && m.remainStopping <= 0
}
