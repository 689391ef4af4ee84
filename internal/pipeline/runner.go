package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"genosum/internal/config"
	"genosum/internal/dataprocessing"
	"genosum/internal/errors"
	"genosum/internal/exporter"
	"genosum/internal/files"
	"genosum/internal/infrastructure"
	"genosum/internal/validation"
	"genosum/pkg/contracts/domain"
)

// HistoryRecorder persists finished runs.
type HistoryRecorder interface {
	RecordRun(ctx context.Context, run domain.RunRecord, failures []domain.FailedFile, summaries []domain.StageSummary) error
}

// Options configures a Runner. Only Config is required.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.TelemetryProviders
	Exporter  exporter.SummaryExporter
	Strategy  Strategy
	History   HistoryRecorder
	Clock     func() time.Time
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Mode       domain.RunMode
	OutputPath string
	Summaries  []domain.StageSummary
	Failures   []domain.FailedFile
	Stats      domain.RunStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// Runner enumerates the stages under the base folder, processes each one and
// exports the summaries once at the end. Strategies accumulate state, so a
// Runner performs a single run.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	strategy   Strategy
	exporter   exporter.SummaryExporter
	history    HistoryRecorder
	validator  *validation.FileValidator
	failureLog *dataprocessing.FailureLog
	tracer     trace.Tracer
	metrics    *infrastructure.PipelineMetrics
	clock      func() time.Time
}

// NewRunner builds a runner, filling unset collaborators from the config.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.NewConfigError("runner requires a config", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cfg:        opts.Config,
		logger:     logger.With(slog.String("component", "runner")),
		strategy:   opts.Strategy,
		exporter:   opts.Exporter,
		history:    opts.History,
		validator:  validation.NewFileValidator(logger),
		failureLog: dataprocessing.NewFailureLog(opts.Config.FailureLogPath),
		clock:      opts.Clock,
	}

	var err error
	if r.strategy == nil {
		if r.strategy, err = NewStrategy(opts.Config, logger); err != nil {
			return nil, err
		}
	}
	if r.exporter == nil {
		if r.exporter, err = exporter.New(opts.Config.OutputFormat, logger); err != nil {
			return nil, err
		}
	}
	if r.clock == nil {
		r.clock = time.Now
	}

	if opts.Telemetry != nil {
		r.tracer = opts.Telemetry.Tracer
		if r.metrics, err = infrastructure.CreatePipelineMetrics(opts.Telemetry.Meter); err != nil {
			return nil, err
		}
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer(infrastructure.TracerName)
	}

	return r, nil
}

// Run executes one pass over the base folder. Per-file problems are skipped
// and reported; anything else aborts the run and is returned.
func (r *Runner) Run(ctx context.Context) (result *Result, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	mode := r.strategy.Mode()
	started := r.clock()

	result = &Result{
		RunID:      infrastructure.GetRunID(ctx),
		Mode:       mode,
		OutputPath: r.cfg.ResolveOutputPath(started),
		StartedAt:  started,
	}

	ctx, span := r.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("run.id", result.RunID),
		attribute.String("run.mode", string(mode)),
		attribute.String("base_folder", r.cfg.BaseFolder),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "Starting analysis",
		slog.String("base_folder", r.cfg.BaseFolder),
		slog.String("mode", string(mode)),
		slog.String("output", result.OutputPath))

	defer func() {
		result.FinishedAt = r.clock()
		r.metrics.RecordRun(ctx, mode, result.FinishedAt.Sub(started), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		r.recordHistory(ctx, result, err)
		if err != nil {
			result = nil
		}
	}()

	if err = r.prepare(ctx, result.OutputPath); err != nil {
		return result, err
	}

	discovery := files.NewDiscovery("")
	processor := dataprocessing.NewStageProcessor(r.logger, discovery, dataprocessing.StageProcessorOptions{
		Failures:          r.failureLog,
		LogMissingColumns: r.cfg.LogMissingColumns(),
	})

	stages, err := discovery.ListDirectories(r.cfg.BaseFolder)
	if err != nil {
		return result, err
	}

	for _, stage := range stages {
		if err = r.processStage(ctx, processor, stage, result); err != nil {
			return result, err
		}
	}

	if result.Summaries, err = r.strategy.Summaries(ctx); err != nil {
		return result, err
	}
	if err = r.strategy.Export(ctx, r.exporter, result.OutputPath, result.Summaries); err != nil {
		return result, err
	}

	span.SetAttributes(
		attribute.Int("run.stages", result.Stats.Stages),
		attribute.Int("run.failed_files", result.Stats.FailedFiles),
	)
	r.logger.InfoContext(ctx, "Analysis complete",
		slog.String("output", result.OutputPath),
		slog.String("failure_log", r.failureLog.Path()),
		slog.Int("stages", result.Stats.Stages),
		slog.Int("samples", result.Stats.Samples),
		slog.Int("cnv_files", result.Stats.CNVFiles),
		slog.Int("mutation_files", result.Stats.MutationFiles),
		slog.Int("failed_files", result.Stats.FailedFiles))

	return result, nil
}

// prepare validates inputs and outputs and clears the failure log.
func (r *Runner) prepare(ctx context.Context, outputPath string) error {
	if err := r.validator.ValidateBaseFolder(ctx, r.cfg.BaseFolder); err != nil {
		return err
	}

	var err error
	if r.cfg.OutputFormat == config.FormatCSV {
		err = r.validator.ValidateOutputDirectory(ctx, outputPath)
	} else {
		err = r.validator.ValidateOutputFile(ctx, outputPath)
	}
	if err != nil {
		return err
	}

	return r.failureLog.Reset()
}

func (r *Runner) processStage(ctx context.Context, processor *dataprocessing.StageProcessor, stage files.FileInfo, result *Result) error {
	ctx, span := r.tracer.Start(ctx, "stage", trace.WithAttributes(
		attribute.String("stage", stage.Name),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "Processing stage", slog.String("stage", stage.Name))

	data, err := processor.ProcessStage(ctx, stage.Name, stage.Path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	data.Stats.Stages = 1

	result.Stats.Add(data.Stats)
	result.Failures = append(result.Failures, data.Failures...)
	r.metrics.RecordStage(ctx, stage.Name, data.Stats)

	span.SetAttributes(
		attribute.Int("stage.samples", data.Stats.Samples),
		attribute.Int("stage.segment_values", data.Stats.SegmentValues),
		attribute.Int("stage.mutation_rows", data.Stats.MutationRows),
	)

	if err := r.strategy.Collect(ctx, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// recordHistory stores the run when a history database is configured. A
// history failure is logged and does not change the run's outcome.
func (r *Runner) recordHistory(ctx context.Context, result *Result, runErr error) {
	if r.history == nil {
		return
	}

	record := domain.RunRecord{
		ID:         result.RunID,
		Mode:       result.Mode,
		Status:     domain.RunStatusSucceeded,
		BaseFolder: r.cfg.BaseFolder,
		OutputPath: result.OutputPath,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Stats:      result.Stats,
	}
	summaries := result.Summaries
	if runErr != nil {
		record.Status = domain.RunStatusFailed
		record.Error = runErr.Error()
		summaries = nil
	}

	if err := r.history.RecordRun(ctx, record, result.Failures, summaries); err != nil {
		r.logger.ErrorContext(ctx, "Failed to record run history",
			slog.String("error", err.Error()))
	}
}
