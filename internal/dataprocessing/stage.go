package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"genosum/internal/errors"
	"genosum/internal/files"
	"genosum/pkg/contracts/domain"
)

// StageData accumulates the raw values of one stage, or of several stages
// after Merge. It lives only for the duration of a run.
type StageData struct {
	Stage                  string
	SegmentMeans           []float64
	MutationTables         []*Table
	SegmentMeansBySample   map[string][]float64
	MutationTablesBySample map[string][]*Table
	Failures               []domain.FailedFile
	Stats                  domain.RunStats
}

// NewStageData returns an empty accumulator.
func NewStageData(stage string) *StageData {
	return &StageData{
		Stage:                  stage,
		SegmentMeansBySample:   make(map[string][]float64),
		MutationTablesBySample: make(map[string][]*Table),
	}
}

// Merge folds other into d. The stage partition is dropped; samples sharing
// an identifier across stages are merged.
func (d *StageData) Merge(other *StageData) {
	if other == nil {
		return
	}
	d.SegmentMeans = append(d.SegmentMeans, other.SegmentMeans...)
	d.MutationTables = append(d.MutationTables, other.MutationTables...)
	for sample, values := range other.SegmentMeansBySample {
		d.SegmentMeansBySample[sample] = append(d.SegmentMeansBySample[sample], values...)
	}
	for sample, tables := range other.MutationTablesBySample {
		d.MutationTablesBySample[sample] = append(d.MutationTablesBySample[sample], tables...)
	}
	d.Failures = append(d.Failures, other.Failures...)
	d.Stats.Add(other.Stats)
}

// Empty reports whether neither segment means nor mutation tables were found.
func (d *StageData) Empty() bool {
	return len(d.SegmentMeans) == 0 && len(d.MutationTables) == 0
}

// Samples returns every sample identifier seen, sorted.
func (d *StageData) Samples() []string {
	seen := make(map[string]struct{})
	for s := range d.SegmentMeansBySample {
		seen[s] = struct{}{}
	}
	for s := range d.MutationTablesBySample {
		seen[s] = struct{}{}
	}
	samples := make([]string, 0, len(seen))
	for s := range seen {
		samples = append(samples, s)
	}
	sort.Strings(samples)
	return samples
}

// StageProcessorOptions configures a StageProcessor.
type StageProcessorOptions struct {
	// Classifier decides file kinds. Defaults to NameClassifier.
	Classifier Classifier
	// Failures receives skipped files. May be nil.
	Failures FailureRecorder
	// LogMissingColumns sends CNV files without a usable segment-mean column
	// to Failures. When false they are only logged.
	LogMissingColumns bool
}

// StageProcessor walks a stage directory of sample subdirectories and
// collects CNV segment means and mutation tables.
type StageProcessor struct {
	discovery         *files.Discovery
	classifier        Classifier
	failures          FailureRecorder
	logMissingColumns bool
	logger            *slog.Logger
}

// NewStageProcessor creates a processor listing directories through discovery.
func NewStageProcessor(logger *slog.Logger, discovery *files.Discovery, opts StageProcessorOptions) *StageProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if discovery == nil {
		discovery = files.NewDiscovery("")
	}
	if opts.Classifier == nil {
		opts.Classifier = NameClassifier{}
	}
	return &StageProcessor{
		discovery:         discovery,
		classifier:        opts.Classifier,
		failures:          opts.Failures,
		logMissingColumns: opts.LogMissingColumns,
		logger:            logger.With(slog.String("component", "stage_processor")),
	}
}

// ProcessStage reads every sample directory under stageDir. Unreadable or
// unusable files are skipped and reported; listing errors and failure-log
// write errors abort the stage.
func (p *StageProcessor) ProcessStage(ctx context.Context, stage, stageDir string) (*StageData, error) {
	data := NewStageData(stage)

	samples, err := p.discovery.ListDirectories(stageDir)
	if err != nil {
		return nil, err
	}

	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.logger.InfoContext(ctx, "Processing sample",
			slog.String("stage", stage),
			slog.String("sample", sample.Name))

		entries, err := p.discovery.ListFiles(sample.Path)
		if err != nil {
			return nil, err
		}
		data.Stats.Samples++

		for _, entry := range entries {
			kind := p.classifier.Classify(entry.Name)
			p.logger.DebugContext(ctx, "Classified file",
				slog.String("file", entry.Path),
				slog.String("kind", kind.String()))

			switch kind {
			case KindCNV:
				data.Stats.CNVFiles++
				err = p.processCNV(ctx, data, sample.Name, entry.Path)
			case KindMutation:
				data.Stats.MutationFiles++
				err = p.processMutation(ctx, data, sample.Name, entry.Path)
			default:
				data.Stats.IgnoredFiles++
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return data, nil
}

func (p *StageProcessor) processCNV(ctx context.Context, data *StageData, sample, path string) error {
	table, err := ReadCNVFile(path)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to read CNV file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return p.fail(ctx, data, path, reasonReadFailurePrefix+err.Error(), true)
	}

	column, ok := SegmentMeanColumn(table)
	if !ok {
		p.logger.WarnContext(ctx, "No segment mean column found",
			slog.String("file", path))
		return p.fail(ctx, data, path, ReasonMissingSegmentMean, p.logMissingColumns)
	}

	cells, _ := table.Column(column)
	values, err := ParseSegmentMeans(cells)
	if err != nil {
		p.logger.WarnContext(ctx, "Segment mean column is not numeric",
			slog.String("file", path),
			slog.String("column", column),
			slog.String("error", err.Error()))
		return p.fail(ctx, data, path, ReasonNonNumericSegment, p.logMissingColumns)
	}

	data.SegmentMeans = append(data.SegmentMeans, values...)
	data.SegmentMeansBySample[sample] = append(data.SegmentMeansBySample[sample], values...)
	data.Stats.SegmentValues += len(values)
	return nil
}

func (p *StageProcessor) processMutation(ctx context.Context, data *StageData, sample, path string) error {
	table, err := ReadMAFFile(path)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to read MAF file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return p.fail(ctx, data, path, reasonReadFailurePrefix+err.Error(), true)
	}

	data.MutationTables = append(data.MutationTables, table)
	data.MutationTablesBySample[sample] = append(data.MutationTablesBySample[sample], table)
	data.Stats.MutationRows += table.Len()
	return nil
}

// fail counts a skipped file and, when record is set, writes it to the
// failure log.
func (p *StageProcessor) fail(ctx context.Context, data *StageData, path, reason string, record bool) error {
	entry := domain.FailedFile{Path: path, Reason: reason}
	data.Failures = append(data.Failures, entry)
	data.Stats.FailedFiles++

	if !record || p.failures == nil {
		return nil
	}
	if err := p.failures.Record(entry); err != nil {
		p.logger.ErrorContext(ctx, "Failed to record failed file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to record failed file", err)
	}
	return nil
}
