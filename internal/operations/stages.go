package operations

import (
	"context"
	"fmt"
	"log/slog"

	"carsales/internal/dataprocessing"
	apperrors "carsales/internal/errors"
	"carsales/internal/exporter"
	"carsales/internal/sources"
	"carsales/internal/storage"
)

// Stage identifiers.
const (
	StageIDExtract   = "extract"
	StageIDTransform = "transform"
	StageIDDerive    = "derive"
	StageIDAggregate = "aggregate"
	StageIDExport    = "export"
	StageIDLoad      = "load"
)

// ExtractStep reads raw records from the configured source file.
type ExtractStep struct {
	Path   string
	Format string
	Logger *slog.Logger
}

func (s *ExtractStep) ID() string   { return StageIDExtract }
func (s *ExtractStep) Name() string { return "Raw Record Extraction" }

func (s *ExtractStep) Execute(ctx context.Context, state *RunState) error {
	var err error
	switch s.Format {
	case "xlsx":
		state.Raw, err = sources.ReadXLSX(s.Path, s.Logger)
	case "csv", "":
		state.Raw, err = sources.ReadCSV(s.Path, s.Logger)
	default:
		err = apperrors.Stagef(StageIDExtract, "unsupported input format %q", s.Format)
	}
	return err
}

// TransformStep normalizes raw records into the clean dataset.
type TransformStep struct {
	Transformer *dataprocessing.Transformer
}

func (s *TransformStep) ID() string   { return StageIDTransform }
func (s *TransformStep) Name() string { return "Record Normalization" }

func (s *TransformStep) Execute(ctx context.Context, state *RunState) error {
	clean, stats, err := s.Transformer.Transform(ctx, state.Raw)
	if err != nil {
		return err
	}
	state.Clean = clean
	state.Stats = stats
	return nil
}

// DeriveStep computes the analytics view over the complete clean set.
type DeriveStep struct {
	Logger *slog.Logger
}

func (s *DeriveStep) ID() string   { return StageIDDerive }
func (s *DeriveStep) Name() string { return "Attribute Derivation" }

func (s *DeriveStep) Execute(ctx context.Context, state *RunState) error {
	state.Derived = dataprocessing.Derive(s.Logger, state.Clean)
	return nil
}

// AggregateStep rebuilds the report catalog.
type AggregateStep struct {
	Analyzer *dataprocessing.Analyzer
}

func (s *AggregateStep) ID() string   { return StageIDAggregate }
func (s *AggregateStep) Name() string { return "Report Aggregation" }

func (s *AggregateStep) Execute(ctx context.Context, state *RunState) error {
	reports, err := s.Analyzer.BuildReports(ctx, state.Derived, state.Stats)
	if err != nil {
		return err
	}
	state.Reports = reports
	return nil
}

// ExportStep writes the datasets and every report to timestamped CSVs.
type ExportStep struct {
	Writer *exporter.CSVWriter
}

func (s *ExportStep) ID() string   { return StageIDExport }
func (s *ExportStep) Name() string { return "CSV Export" }

func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	views := []exporter.View{
		exporter.CleanView(state.Clean),
		exporter.DerivedView(state.Derived),
	}
	views = append(views, exporter.ReportViews(state.Reports)...)

	for _, v := range views {
		if _, err := s.Writer.WriteView(v.Name, v.Headers, v.Records); err != nil {
			return apperrors.NewStage(StageIDExport, fmt.Errorf("view %s: %w", v.Name, err))
		}
	}
	return nil
}

// LoadStep persists the datasets to PostgreSQL. It only appears in the step
// list when a DSN is configured.
type LoadStep struct {
	Writer *storage.PostgresWriter
}

func (s *LoadStep) ID() string   { return StageIDLoad }
func (s *LoadStep) Name() string { return "Database Load" }

func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	if err := s.Writer.WriteClean(ctx, state.Clean); err != nil {
		return apperrors.NewStage(StageIDLoad, err)
	}
	if err := s.Writer.WriteDerived(ctx, state.Derived); err != nil {
		return apperrors.NewStage(StageIDLoad, err)
	}
	return nil
}
