package pipeline

import (
	"context"
	"log/slog"

	"genosum/internal/config"
	"genosum/internal/dataprocessing"
	"genosum/internal/errors"
	"genosum/internal/exporter"
	"genosum/pkg/contracts/domain"
)

// Strategy decides the aggregation granularity of a run: what happens to each
// stage's data, which summaries come out, and how they are exported.
type Strategy interface {
	Mode() domain.RunMode
	Collect(ctx context.Context, data *dataprocessing.StageData) error
	Summaries(ctx context.Context) ([]domain.StageSummary, error)
	Export(ctx context.Context, exp exporter.SummaryExporter, path string, summaries []domain.StageSummary) error
}

// NewStrategy returns the strategy for cfg.Mode.
func NewStrategy(cfg *config.Config, logger *slog.Logger) (Strategy, error) {
	switch cfg.Mode {
	case config.ModeStages, "":
		sc := dataprocessing.DefaultSummarizerConfig()
		sc.TopGenes = cfg.TopGenes
		return NewPerStage(dataprocessing.NewSummarizer(logger, sc)), nil
	case config.ModeOverall:
		sc := dataprocessing.OverallSummarizerConfig()
		sc.TopGenes = cfg.TopGenes
		sc.IncludeSampleBreakdown = cfg.IncludeSampleBreakdown
		return NewOverall(dataprocessing.NewSummarizer(logger, sc)), nil
	default:
		return nil, errors.NewConfigError("unknown mode "+cfg.Mode, nil)
	}
}

// PerStage summarizes every stage on its own and exports all stages into one
// output.
type PerStage struct {
	summarizer *dataprocessing.Summarizer
	summaries  []domain.StageSummary
}

// NewPerStage creates a per-stage strategy.
func NewPerStage(summarizer *dataprocessing.Summarizer) *PerStage {
	return &PerStage{summarizer: summarizer}
}

func (s *PerStage) Mode() domain.RunMode { return domain.RunModeStages }

// Collect summarizes the stage right away so its raw data can be dropped.
func (s *PerStage) Collect(ctx context.Context, data *dataprocessing.StageData) error {
	summary, err := s.summarizer.CreateStageSummary(ctx, data)
	if err != nil {
		return err
	}
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *PerStage) Summaries(context.Context) ([]domain.StageSummary, error) {
	return s.summaries, nil
}

func (s *PerStage) Export(ctx context.Context, exp exporter.SummaryExporter, path string, summaries []domain.StageSummary) error {
	return exp.SaveStageSummaries(ctx, path, summaries)
}

// OverallStageName labels the merged summary.
const OverallStageName = "overall"

// Overall merges every stage, keeping only the sample partition, and
// exports a single summary.
type Overall struct {
	summarizer *dataprocessing.Summarizer
	merged     *dataprocessing.StageData
}

// NewOverall creates an overall strategy.
func NewOverall(summarizer *dataprocessing.Summarizer) *Overall {
	return &Overall{
		summarizer: summarizer,
		merged:     dataprocessing.NewStageData(OverallStageName),
	}
}

func (s *Overall) Mode() domain.RunMode { return domain.RunModeOverall }

func (s *Overall) Collect(_ context.Context, data *dataprocessing.StageData) error {
	s.merged.Merge(data)
	return nil
}

func (s *Overall) Summaries(ctx context.Context) ([]domain.StageSummary, error) {
	summary, err := s.summarizer.CreateStageSummary(ctx, s.merged)
	if err != nil {
		return nil, err
	}
	return []domain.StageSummary{summary}, nil
}

func (s *Overall) Export(ctx context.Context, exp exporter.SummaryExporter, path string, summaries []domain.StageSummary) error {
	summary := domain.StageSummary{Stage: OverallStageName}
	if len(summaries) > 0 {
		summary = summaries[0]
	}
	return exp.SaveOverallSummary(ctx, path, summary)
}
