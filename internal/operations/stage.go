// Package operations orchestrates the batch pipeline: a fixed, ordered
// sequence of steps sharing one run state. The pipeline is synchronous per
// stage; re-running it end to end is the only refresh operation.
package operations

import (
	"context"
	"sync"
	"time"

	"carsales/internal/dataprocessing"
	"carsales/pkg/contracts/domain"
)

// Step is a single pipeline stage.
type Step interface {
	// ID returns the stable identifier used in diagnostics and logs.
	ID() string

	// Name returns the human-readable stage name.
	Name() string

	// Execute runs the stage against the shared run state. Returning an
	// error marks the run failed; row-level anomalies are not errors.
	Execute(ctx context.Context, state *RunState) error
}

// StepStatus is the lifecycle state of one step within a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState tracks the runtime state of one step.
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// NewStepState creates a pending step state.
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active.
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartTime = time.Now()
	s.Status = StepStatusActive
}

// Complete marks the step completed.
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndTime = time.Now()
	s.Status = StepStatusCompleted
}

// Fail marks the step failed with err.
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndTime = time.Now()
	s.Status = StepStatusFailed
	s.Err = err
}

// Snapshot returns the current status without holding the lock.
func (s *StepState) Snapshot() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// RunState is the shared state of one pipeline run. Each stage consumes the
// complete output of the prior stage; nothing mutates another stage's
// output after it is produced.
type RunState struct {
	RunID string

	Raw     []domain.RawRecord
	Clean   []domain.CleanRecord
	Derived []domain.DerivedRecord
	Stats   dataprocessing.TransformStats
	Reports *domain.ReportSet

	Steps []*StepState
}
