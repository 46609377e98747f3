package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "carsales/internal/errors"
)

// Manager runs the pipeline steps sequentially under one run ID, stopping
// at the first structural failure.
type Manager struct {
	logger *slog.Logger
	steps  []Step
}

// NewManager creates a Manager over an ordered step list.
func NewManager(logger *slog.Logger, steps ...Step) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger, steps: steps}
}

// Run executes every step in order. The returned state carries the full
// outputs of the run even when it fails partway, so callers can inspect
// what was produced before the failure.
func (m *Manager) Run(ctx context.Context) (*RunState, error) {
	state := &RunState{RunID: uuid.NewString()}
	for _, step := range m.steps {
		state.Steps = append(state.Steps, NewStepState(step.ID(), step.Name()))
	}

	logger := m.logger.With(slog.String("run_id", state.RunID))
	logger.Info("pipeline run starting", slog.Int("steps", len(m.steps)))
	started := time.Now()

	for i, step := range m.steps {
		if err := ctx.Err(); err != nil {
			state.Steps[i].Fail(err)
			return state, apperrors.NewStage(step.ID(), err)
		}

		ss := state.Steps[i]
		ss.Start()
		logger.Info("stage starting",
			slog.String("stage", step.ID()),
			slog.String("name", step.Name()))

		if err := step.Execute(ctx, state); err != nil {
			ss.Fail(err)
			logger.Error("stage failed",
				slog.String("stage", step.ID()),
				slog.String("error", err.Error()))
			if _, ok := apperrors.StageOf(err); ok {
				return state, err
			}
			return state, apperrors.NewStage(step.ID(), err)
		}

		ss.Complete()
		logger.Info("stage completed",
			slog.String("stage", step.ID()),
			slog.Duration("elapsed", ss.EndTime.Sub(ss.StartTime)))
	}

	logger.Info("pipeline run complete",
		slog.Duration("elapsed", time.Since(started)))
	return state, nil
}
