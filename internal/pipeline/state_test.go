package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunState_SingleRunGate(t *testing.T) {
	state := NewRunState()

	require.NoError(t, state.TryStart())
	require.ErrorIs(t, state.TryStart(), ErrAlreadyRunning)

	state.Finish(5, 1, nil)
	require.NoError(t, state.TryStart(), "the slot is free again after Finish")
}

func TestRunState_ObserveAndSnapshot(t *testing.T) {
	state := NewRunState()
	require.NoError(t, state.TryStart())

	state.Observe(Progress{Stage: "classification", Progress: 40, Message: "Processed 2/5 ideas"})

	snap := state.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, "classification", snap.Stage)
	assert.Equal(t, 40, snap.Progress)
}

func TestRunState_FinishSuccess(t *testing.T) {
	state := NewRunState()
	require.NoError(t, state.TryStart())
	state.Observe(Progress{Stage: "evaluation", Progress: 80})

	state.Finish(7, 2, nil)

	snap := state.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, "complete", snap.Stage)
	assert.Equal(t, 100, snap.Progress)
	assert.Equal(t, 7, snap.Completed)
	assert.Equal(t, 2, snap.Failed)
}

func TestRunState_FinishError(t *testing.T) {
	state := NewRunState()
	require.NoError(t, state.TryStart())

	state.Finish(3, 0, errors.New("no active rubrics configured"))

	snap := state.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, "failed", snap.Stage)
	assert.Equal(t, 3, snap.Completed)
}

func TestRunState_TryStartResetsSnapshot(t *testing.T) {
	state := NewRunState()
	require.NoError(t, state.TryStart())
	state.Observe(Progress{Stage: "extraction", Progress: 60})
	state.Finish(4, 1, nil)

	require.NoError(t, state.TryStart())

	snap := state.Snapshot()
	assert.True(t, snap.Running)
	assert.Empty(t, snap.Stage)
	assert.Zero(t, snap.Progress)
	assert.Zero(t, snap.Completed)
	assert.Zero(t, snap.Failed)
}
