package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"genosum/internal/config"
	"genosum/pkg/contracts"
	"genosum/pkg/contracts/domain"
)

const (
	ServiceName = "genosum"
	MeterName   = "genosum"
	TracerName  = "genosum.pipeline"
)

// TelemetryProviders holds the per-run OpenTelemetry providers. Metrics are
// collected into a private Prometheus registry so repeated runs in one
// process never collide on registration.
type TelemetryProviders struct {
	TracerProvider trace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Logger         *slog.Logger

	sdkTracer   *sdktrace.TracerProvider
	traceFile   *os.File
	metricsFile string
}

// InitializeTelemetry builds tracing and metrics providers for one run.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	providers := &TelemetryProviders{
		Logger:      logger,
		metricsFile: cfg.MetricsFile,
	}

	if err := initializeMetrics(res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := initializeTracing(cfg.TraceFile, res, providers); err != nil {
		_ = providers.MeterProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return providers, nil
}

// initializeMetrics wires an OpenTelemetry meter to a Prometheus registry
func initializeMetrics(res *resource.Resource, providers *TelemetryProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	return nil
}

// initializeTracing exports spans as JSON to traceFile, or disables tracing
// when no file is configured
func initializeTracing(traceFile string, res *resource.Resource, providers *TelemetryProviders) error {
	if traceFile == "" {
		providers.TracerProvider = noop.NewTracerProvider()
		providers.Tracer = providers.TracerProvider.Tracer(TracerName)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(traceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.Create(traceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	providers.sdkTracer = tp
	providers.traceFile = file
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(TracerName, trace.WithInstrumentationVersion(contracts.Version))
	return nil
}

// Shutdown flushes spans, writes the metrics textfile if configured and
// releases all providers.
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.sdkTracer != nil {
		if err := p.sdkTracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
	}

	// Gather before the meter provider shuts its reader down.
	if p.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(p.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := promclient.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		} else {
			p.Logger.InfoContext(ctx, "Metrics written", slog.String("path", p.metricsFile))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics holds the counters and histograms recorded by a run.
// A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	StagesTotal        metric.Int64Counter
	SamplesTotal       metric.Int64Counter
	FilesTotal         metric.Int64Counter
	FailedFilesTotal   metric.Int64Counter
	SegmentValuesTotal metric.Int64Counter
	MutationRowsTotal  metric.Int64Counter
	RunDuration        metric.Float64Histogram
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stages, err := meter.Int64Counter(
		"genosum_stages",
		metric.WithDescription("Stage directories processed"),
	)
	if err != nil {
		return nil, err
	}

	samples, err := meter.Int64Counter(
		"genosum_samples",
		metric.WithDescription("Sample directories processed"),
	)
	if err != nil {
		return nil, err
	}

	files, err := meter.Int64Counter(
		"genosum_files",
		metric.WithDescription("Files seen in sample directories, by classification"),
	)
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter(
		"genosum_failed_files",
		metric.WithDescription("Files whose contribution was skipped"),
	)
	if err != nil {
		return nil, err
	}

	segments, err := meter.Int64Counter(
		"genosum_segment_values",
		metric.WithDescription("Segment-mean values accumulated"),
	)
	if err != nil {
		return nil, err
	}

	rows, err := meter.Int64Counter(
		"genosum_mutation_rows",
		metric.WithDescription("Mutation annotation rows accumulated"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"genosum_run_duration",
		metric.WithDescription("Run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StagesTotal:        stages,
		SamplesTotal:       samples,
		FilesTotal:         files,
		FailedFilesTotal:   failed,
		SegmentValuesTotal: segments,
		MutationRowsTotal:  rows,
		RunDuration:        duration,
	}, nil
}

// RecordStage adds one stage's counts
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, stats domain.RunStats) {
	if m == nil {
		return
	}

	stageAttr := metric.WithAttributes(attribute.String("stage", stage))
	m.StagesTotal.Add(ctx, 1, stageAttr)
	m.SamplesTotal.Add(ctx, int64(stats.Samples), stageAttr)
	m.FilesTotal.Add(ctx, int64(stats.CNVFiles), metric.WithAttributes(
		attribute.String("stage", stage), attribute.String("kind", "cnv")))
	m.FilesTotal.Add(ctx, int64(stats.MutationFiles), metric.WithAttributes(
		attribute.String("stage", stage), attribute.String("kind", "mutation")))
	m.FilesTotal.Add(ctx, int64(stats.IgnoredFiles), metric.WithAttributes(
		attribute.String("stage", stage), attribute.String("kind", "unclassified")))
	m.FailedFilesTotal.Add(ctx, int64(stats.FailedFiles), stageAttr)
	m.SegmentValuesTotal.Add(ctx, int64(stats.SegmentValues), stageAttr)
	m.MutationRowsTotal.Add(ctx, int64(stats.MutationRows), stageAttr)
}

// RecordRun records the outcome and duration of a run
func (m *PipelineMetrics) RecordRun(ctx context.Context, mode domain.RunMode, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.String("status", status),
	))
}
