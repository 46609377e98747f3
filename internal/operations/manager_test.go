package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carsales/internal/errors"
)

type fakeStep struct {
	id   string
	err  error
	runs *[]string
}

func (s *fakeStep) ID() string   { return s.id }
func (s *fakeStep) Name() string { return "Fake " + s.id }

func (s *fakeStep) Execute(ctx context.Context, state *RunState) error {
	*s.runs = append(*s.runs, s.id)
	return s.err
}

func TestManagerRunsStepsInOrder(t *testing.T) {
	var runs []string
	m := NewManager(nil,
		&fakeStep{id: "one", runs: &runs},
		&fakeStep{id: "two", runs: &runs},
		&fakeStep{id: "three", runs: &runs},
	)

	state, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, runs)
	assert.NotEmpty(t, state.RunID)
	for _, ss := range state.Steps {
		assert.Equal(t, StepStatusCompleted, ss.Snapshot())
	}
}

func TestManagerStopsAtFirstFailure(t *testing.T) {
	var runs []string
	boom := errors.New("boom")
	m := NewManager(nil,
		&fakeStep{id: "one", runs: &runs},
		&fakeStep{id: "two", runs: &runs, err: boom},
		&fakeStep{id: "three", runs: &runs},
	)

	state, err := m.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	stage, ok := apperrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, "two", stage)

	assert.Equal(t, []string{"one", "two"}, runs)
	assert.Equal(t, StepStatusCompleted, state.Steps[0].Snapshot())
	assert.Equal(t, StepStatusFailed, state.Steps[1].Snapshot())
	assert.Equal(t, StepStatusPending, state.Steps[2].Snapshot())
}

func TestManagerKeepsExistingStageAttribution(t *testing.T) {
	var runs []string
	m := NewManager(nil,
		&fakeStep{id: "load", runs: &runs, err: apperrors.Stagef("extract", "inner failure")},
	)

	_, err := m.Run(context.Background())
	require.Error(t, err)
	stage, ok := apperrors.StageOf(err)
	require.True(t, ok)
	// The step already attributed the failure; the manager must not re-wrap.
	assert.Equal(t, "extract", stage)
}

func TestManagerHonorsContextCancellation(t *testing.T) {
	var runs []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(nil, &fakeStep{id: "one", runs: &runs})
	_, err := m.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, runs)
}

func TestManagerUniqueRunIDs(t *testing.T) {
	var runs []string
	m := NewManager(nil, &fakeStep{id: "one", runs: &runs})

	first, err := m.Run(context.Background())
	require.NoError(t, err)
	second, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
}
