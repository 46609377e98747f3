// Package services exposes the pipeline to its delivery surfaces. The
// PipelineService owns the latest run snapshot; refresh is always a full
// recomputation, never an incremental update.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"carsales/internal/config"
	"carsales/internal/dataprocessing"
	"carsales/internal/exporter"
	"carsales/internal/infrastructure"
	"carsales/internal/operations"
	"carsales/internal/storage"
	"carsales/pkg/contracts/domain"
)

// PipelineService runs the ETL pipeline and serves its latest outputs.
type PipelineService struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	pg      *storage.PostgresWriter

	mu    sync.RWMutex
	state *operations.RunState
}

// NewPipelineService creates the service. metrics and pg may be nil.
func NewPipelineService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics, pg *storage.PostgresWriter) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineService{cfg: cfg, logger: logger, metrics: metrics, pg: pg}
}

// Refresh runs the full pipeline and swaps in the new snapshot on success.
func (s *PipelineService) Refresh(ctx context.Context) error {
	steps := []operations.Step{
		&operations.ExtractStep{
			Path:   s.cfg.Input.Path,
			Format: s.cfg.Input.Format,
			Logger: s.logger,
		},
		&operations.TransformStep{
			Transformer: dataprocessing.NewTransformer(s.logger, s.cfg.Pipeline.Workers),
		},
		&operations.DeriveStep{Logger: s.logger},
		&operations.AggregateStep{
			Analyzer: dataprocessing.NewAnalyzer(s.logger),
		},
		&operations.ExportStep{
			Writer: exporter.NewCSVWriter(s.cfg.Output.Dir, s.logger),
		},
	}
	if s.pg != nil {
		steps = append(steps, &operations.LoadStep{Writer: s.pg})
	}

	started := time.Now()
	state, err := operations.NewManager(s.logger, steps...).Run(ctx)
	if err != nil {
		return err
	}

	s.metrics.RecordRun(ctx,
		state.Stats.RowsRead,
		state.Stats.Admitted,
		state.Stats.Rejected,
		state.Stats.UnparsablePrice+state.Stats.UnparsableIncome,
		time.Since(started))

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Ready reports whether a run has completed.
func (s *PipelineService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// Reports returns the latest report set, or nil before the first run.
func (s *PipelineService) Reports() *domain.ReportSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.Reports
}

// Derived returns the latest derived dataset.
func (s *PipelineService) Derived() []domain.DerivedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.Derived
}

// Clean returns the latest clean dataset.
func (s *PipelineService) Clean() []domain.CleanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.Clean
}

// Stats returns the admission counters of the latest run.
func (s *PipelineService) Stats() dataprocessing.TransformStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return dataprocessing.TransformStats{}
	}
	return s.state.Stats
}
