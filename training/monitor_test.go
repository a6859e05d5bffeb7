package training

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensormesh/backend"
	"github.com/hupe1980/tensormesh/core"
	"github.com/hupe1980/tensormesh/internal/testutil"
)

// Interface compliance (compile-time assertions)
var (
	_ Monitor = (*Chain)(nil)
	_ Monitor = (*EveryFewStepMonitor)(nil)
	_ Monitor = (*CheckpointMonitor)(nil)
	_ Monitor = (*TrainingLossMonitor)(nil)
	_ Monitor = (*ValidationMonitor)(nil)
)

type recordingMonitor struct {
	BaseMonitor
	calls    []string
	stopping bool
}

func (m *recordingMonitor) StartTraining(Context) error {
	m.calls = append(m.calls, "start_training")
	return nil
}

func (m *recordingMonitor) EndStep(step int, _ float64) error {
	m.calls = append(m.calls, fmt.Sprintf("end_step:%d", step))
	return nil
}

func (m *recordingMonitor) EndTraining() error {
	m.calls = append(m.calls, "end_training")
	return nil
}

func (m *recordingMonitor) InducingStopping() bool { return m.stopping }

func TestChainFansOut(t *testing.T) {
	first := &recordingMonitor{}
	second := &recordingMonitor{stopping: true}
	chain := NewChain(first, second)

	require.NoError(t, chain.StartTraining(Context{}))
	require.NoError(t, chain.EndStep(0, 0.5))
	require.NoError(t, chain.EndTraining())

	want := []string{"start_training", "end_step:0", "end_training"}
	assert.Equal(t, want, first.calls)
	assert.Equal(t, want, second.calls)
	assert.True(t, chain.InducingStopping())
}

func TestEveryFewStepMonitorStepCadence(t *testing.T) {
	var fired []int
	m, err := NewEveryFewStepMonitor(func(step int, _ float64) error {
		fired = append(fired, step)
		return nil
	}, WithEverySteps(3))
	require.NoError(t, err)

	require.NoError(t, m.StartTraining(Context{}))
	for step := 1; step <= 10; step++ {
		require.NoError(t, m.EndStep(step, 0.1))
	}
	assert.Equal(t, []int{3, 6, 9}, fired)
}

func TestEveryFewStepMonitorRequiresCadence(t *testing.T) {
	_, err := NewEveryFewStepMonitor(func(int, float64) error { return nil })
	assert.Error(t, err)
}

func TestEveryFewStepMonitorResumesFromInitialStep(t *testing.T) {
	var fired []int
	m, err := NewEveryFewStepMonitor(func(step int, _ float64) error {
		fired = append(fired, step)
		return nil
	}, WithEverySteps(5))
	require.NoError(t, err)

	require.NoError(t, m.StartTraining(Context{InitialStep: 7}))
	for step := 8; step <= 13; step++ {
		require.NoError(t, m.EndStep(step, 0.1))
	}
	assert.Equal(t, []int{12}, fired)
}

func TestCheckpointMonitorSavesPeriodically(t *testing.T) {
	r := core.NewRegistry()
	q := testutil.NewQuadGraph(t, r)
	release := q.Graph.AsDefault(r)
	defer release()

	path := filepath.Join(t.TempDir(), "checkpoint")
	sess, err := core.OpenSession(r,
		core.WithBackend(backend.NewInMemory()),
		core.WithCheckpointPath(path),
	)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck

	m, err := NewCheckpointMonitor(WithEverySteps(2))
	require.NoError(t, err)
	require.NoError(t, m.StartTraining(Context{Session: sess, Graph: q.Graph}))

	for step := 1; step <= 6; step++ {
		require.NoError(t, m.EndStep(step, 0.1))
	}

	// fired at steps 2, 4 and 6
	assert.Equal(t, 4, sess.NextCheckpointIndex())
	for i := 1; i <= 3; i++ {
		_, err := os.Stat(fmt.Sprintf("%s.v%d", path, i))
		assert.NoError(t, err, "variables file %d", i)
	}
}

func TestTrainingLossMonitorAggregates(t *testing.T) {
	m, err := NewTrainingLossMonitor(WithEverySteps(2))
	require.NoError(t, err)
	require.NoError(t, m.StartTraining(Context{}))

	require.NoError(t, m.EndStep(1, 1.0))
	assert.Equal(t, 1, m.numSteps)
	require.NoError(t, m.EndStep(2, 3.0))
	// cadence fired: accumulators reset
	assert.Equal(t, 0, m.numSteps)
	assert.Equal(t, 0.0, m.sumLoss)
}
