package dataprocessing

import (
	"context"
	"log/slog"

	"genosum/pkg/contracts/domain"
)

// Value column headers of the emitted sheets.
const (
	StatsColumnStage      = "Value"
	StatsColumnOverall    = "CNV Segment Mean Statistics"
	MutationCountColumn   = "Mutation_Count"
	ClassificationColumn  = "Count"
	SampleIndexLabel      = "Sample"
	SampleMutationsColumn = "Mutation_Rows"
	SampleSegmentsColumn  = "Segment_Values"
)

// Summarizer reduces accumulated stage data to summary tables.
type Summarizer struct {
	logger *slog.Logger
	config SummarizerConfig
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopGenes               int    // Rows kept in the top mutated genes table
	StatsColumn            string // Header of the segment statistics value column
	IncludeSampleBreakdown bool   // Emit per-sample count tables
}

// DefaultSummarizerConfig returns the per-stage configuration.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		TopGenes:    10,
		StatsColumn: StatsColumnStage,
	}
}

// OverallSummarizerConfig returns the configuration for merged data.
func OverallSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		TopGenes:    10,
		StatsColumn: StatsColumnOverall,
	}
}

// NewSummarizer creates a summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopGenes <= 0 {
		config.TopGenes = 10
	}
	if config.StatsColumn == "" {
		config.StatsColumn = StatsColumnStage
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		config: config,
	}
}

// CreateStageSummary builds the summary tables for data. Segment statistics
// are emitted when any segment values were collected; the gene and
// classification tables when any mutation table was read. Data with neither
// yields a summary with no tables.
func (s *Summarizer) CreateStageSummary(ctx context.Context, data *StageData) (domain.StageSummary, error) {
	summary := domain.StageSummary{Stage: data.Stage}

	if len(data.SegmentMeans) > 0 {
		summary.Tables = append(summary.Tables, domain.SummaryTable{
			Name:        domain.SheetCNVSegmentStats,
			ValueColumn: s.config.StatsColumn,
			Rows:        Describe(data.SegmentMeans),
		})
	}

	if len(data.MutationTables) > 0 {
		combined := ConcatTables(data.MutationTables)

		genes, err := ValueCounts(combined, domain.FieldHugoSymbol, s.config.TopGenes)
		if err != nil {
			return domain.StageSummary{}, err
		}
		classes, err := ValueCounts(combined, domain.FieldVariantClassification, 0)
		if err != nil {
			return domain.StageSummary{}, err
		}

		summary.Tables = append(summary.Tables,
			domain.SummaryTable{
				Name:        domain.SheetTopMutatedGenes,
				IndexLabel:  domain.FieldHugoSymbol,
				ValueColumn: MutationCountColumn,
				Rows:        genes,
			},
			domain.SummaryTable{
				Name:        domain.SheetMutationClassification,
				IndexLabel:  domain.FieldVariantClassification,
				ValueColumn: ClassificationColumn,
				Rows:        classes,
			})
	}

	if s.config.IncludeSampleBreakdown {
		summary.Tables = append(summary.Tables, s.sampleBreakdown(data)...)
	}

	s.logger.DebugContext(ctx, "Stage summary created",
		slog.String("stage", data.Stage),
		slog.Int("tables", len(summary.Tables)))

	return summary, nil
}

func (s *Summarizer) sampleBreakdown(data *StageData) []domain.SummaryTable {
	var tables []domain.SummaryTable
	samples := data.Samples()

	var mutationRows []domain.SummaryRow
	for _, sample := range samples {
		sampleTables, ok := data.MutationTablesBySample[sample]
		if !ok {
			continue
		}
		var n int
		for _, t := range sampleTables {
			n += t.Len()
		}
		mutationRows = append(mutationRows, domain.SummaryRow{Label: sample, Value: float64(n)})
	}
	if len(mutationRows) > 0 {
		tables = append(tables, domain.SummaryTable{
			Name:        domain.SheetSampleMutationCounts,
			IndexLabel:  SampleIndexLabel,
			ValueColumn: SampleMutationsColumn,
			Rows:        mutationRows,
		})
	}

	var segmentRows []domain.SummaryRow
	for _, sample := range samples {
		values, ok := data.SegmentMeansBySample[sample]
		if !ok {
			continue
		}
		segmentRows = append(segmentRows, domain.SummaryRow{Label: sample, Value: float64(len(values))})
	}
	if len(segmentRows) > 0 {
		tables = append(tables, domain.SummaryTable{
			Name:        domain.SheetSampleSegmentCounts,
			IndexLabel:  SampleIndexLabel,
			ValueColumn: SampleSegmentsColumn,
			Rows:        segmentRows,
		})
	}

	return tables
}
