package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	ServiceName    = "carsales-etl"
	ServiceVersion = "1.0.0"
	meterName      = "carsales"
)

// Metrics holds the pipeline instruments and the Prometheus scrape handler.
type Metrics struct {
	provider *sdkmetric.MeterProvider

	RowsRead     metric.Int64Counter
	RowsAdmitted metric.Int64Counter
	RowsRejected metric.Int64Counter
	Anomalies    metric.Int64Counter
	RunDuration  metric.Float64Histogram

	Handler http.Handler
	Logger  *slog.Logger
}

// InitializeMetrics sets up an OpenTelemetry meter provider backed by a
// Prometheus exporter and creates the pipeline instruments.
func InitializeMetrics(logger *slog.Logger) (*Metrics, error) {
	if logger == nil {
		logger = slog.Default()
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)
	meter := provider.Meter(meterName)

	m := &Metrics{
		provider: provider,
		Handler:  promhttp.Handler(),
		Logger:   logger,
	}

	if m.RowsRead, err = meter.Int64Counter("pipeline_rows_read_total",
		metric.WithDescription("Raw rows read from the source")); err != nil {
		return nil, err
	}
	if m.RowsAdmitted, err = meter.Int64Counter("pipeline_rows_admitted_total",
		metric.WithDescription("Rows admitted into the clean dataset")); err != nil {
		return nil, err
	}
	if m.RowsRejected, err = meter.Int64Counter("pipeline_rows_rejected_total",
		metric.WithDescription("Rows rejected at admission (blank identifier)")); err != nil {
		return nil, err
	}
	if m.Anomalies, err = meter.Int64Counter("pipeline_row_anomalies_total",
		metric.WithDescription("Row-level anomalies observed during transformation")); err != nil {
		return nil, err
	}
	if m.RunDuration, err = meter.Float64Histogram("pipeline_run_duration_seconds",
		metric.WithDescription("End-to-end pipeline run duration")); err != nil {
		return nil, err
	}

	logger.Info("metrics initialized", slog.String("exporter", "prometheus"))
	return m, nil
}

// RecordRun records the counters of one completed pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, rowsRead, admitted, rejected, anomalies int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(rowsRead))
	m.RowsAdmitted.Add(ctx, int64(admitted))
	m.RowsRejected.Add(ctx, int64(rejected))
	m.Anomalies.Add(ctx, int64(anomalies),
		metric.WithAttributes(attribute.String("stage", "transform")))
	m.RunDuration.Record(ctx, elapsed.Seconds())
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
