package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genosum/internal/errors"
	"genosum/internal/files"
	"genosum/internal/shared/testutil"
	"genosum/pkg/contracts/domain"
)

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		name        string
		config      SummarizerConfig
		wantTop     int
		wantColumn  string
		wantSamples bool
	}{
		{name: "default config", config: DefaultSummarizerConfig(), wantTop: 10, wantColumn: StatsColumnStage},
		{name: "overall config", config: OverallSummarizerConfig(), wantTop: 10, wantColumn: StatsColumnOverall},
		{name: "zero values fall back", config: SummarizerConfig{}, wantTop: 10, wantColumn: StatsColumnStage},
		{
			name:        "custom config",
			config:      SummarizerConfig{TopGenes: 3, StatsColumn: "Stat", IncludeSampleBreakdown: true},
			wantTop:     3,
			wantColumn:  "Stat",
			wantSamples: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(nil, tt.config)
			require.NotNil(t, s.logger)
			assert.Equal(t, tt.wantTop, s.config.TopGenes)
			assert.Equal(t, tt.wantColumn, s.config.StatsColumn)
			assert.Equal(t, tt.wantSamples, s.config.IncludeSampleBreakdown)
		})
	}
}

func TestCreateStageSummary_EndToEnd(t *testing.T) {
	tree := testutil.NewSampleTree(t)
	tree.WriteCNV("I", "S1", testutil.CNVFileName("c"), "segment_mean", "0.1", "-0.2", "0.3")
	tree.WriteMAF("I", "S1", testutil.MAFFileName("m"),
		testutil.MutationRow{Gene: "A", Classification: "Missense"},
		testutil.MutationRow{Gene: "B", Classification: "Silent"})

	processor := NewStageProcessor(nil, files.NewDiscovery(tree.Root), StageProcessorOptions{})
	data, err := processor.ProcessStage(context.Background(), "I", "I")
	require.NoError(t, err)

	summary, err := NewSummarizer(nil, DefaultSummarizerConfig()).CreateStageSummary(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "I", summary.Stage)
	require.Len(t, summary.Tables, 3)
	assert.Equal(t, domain.SheetCNVSegmentStats, summary.Tables[0].Name)
	assert.Equal(t, domain.SheetTopMutatedGenes, summary.Tables[1].Name)
	assert.Equal(t, domain.SheetMutationClassification, summary.Tables[2].Name)

	stats, _ := summary.Table(domain.SheetCNVSegmentStats)
	assert.Equal(t, StatsColumnStage, stats.ValueColumn)
	count, ok := stats.Value("count")
	require.True(t, ok)
	assert.Equal(t, 3.0, count)
	median, _ := stats.Value("50%")
	assert.Equal(t, 0.1, median)

	genes, _ := summary.Table(domain.SheetTopMutatedGenes)
	assert.Equal(t, domain.FieldHugoSymbol, genes.IndexLabel)
	assert.Equal(t, MutationCountColumn, genes.ValueColumn)
	assert.Equal(t, []domain.SummaryRow{{Label: "A", Value: 1}, {Label: "B", Value: 1}}, genes.Rows)

	classes, _ := summary.Table(domain.SheetMutationClassification)
	assert.Equal(t, ClassificationColumn, classes.ValueColumn)
	assert.Equal(t, []domain.SummaryRow{{Label: "Missense", Value: 1}, {Label: "Silent", Value: 1}}, classes.Rows)
}

func mutationTable(rows ...[2]string) *Table {
	t := &Table{Columns: []string{domain.FieldHugoSymbol, domain.FieldVariantClassification}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r[0], r[1]})
	}
	return t
}

func TestCreateStageSummary_TopGenesTieBreak(t *testing.T) {
	var rows [][2]string
	for gene, n := range map[string]int{"TP53": 5, "KRAS": 3, "EGFR": 3} {
		for i := 0; i < n; i++ {
			rows = append(rows, [2]string{gene, "Missense_Mutation"})
		}
	}
	data := NewStageData("III")
	data.MutationTables = []*Table{mutationTable(rows...)}

	s := NewSummarizer(nil, SummarizerConfig{TopGenes: 2})
	summary, err := s.CreateStageSummary(context.Background(), data)
	require.NoError(t, err)

	genes, ok := summary.Table(domain.SheetTopMutatedGenes)
	require.True(t, ok)
	assert.Equal(t, []domain.SummaryRow{{Label: "TP53", Value: 5}, {Label: "EGFR", Value: 3}}, genes.Rows)

	classes, _ := summary.Table(domain.SheetMutationClassification)
	assert.Equal(t, []domain.SummaryRow{{Label: "Missense_Mutation", Value: 11}}, classes.Rows)
}

func TestCreateStageSummary_TopTenLimit(t *testing.T) {
	var rows [][2]string
	for i := 0; i < 12; i++ {
		rows = append(rows, [2]string{string(rune('A' + i)), "Silent"})
	}
	data := NewStageData("I")
	data.MutationTables = []*Table{mutationTable(rows...)}

	summary, err := NewSummarizer(nil, DefaultSummarizerConfig()).CreateStageSummary(context.Background(), data)
	require.NoError(t, err)

	genes, _ := summary.Table(domain.SheetTopMutatedGenes)
	assert.Len(t, genes.Rows, 10)
	assert.Equal(t, "A", genes.Rows[0].Label)
	assert.Equal(t, "J", genes.Rows[9].Label)
}

func TestCreateStageSummary_Empty(t *testing.T) {
	summary, err := NewSummarizer(nil, DefaultSummarizerConfig()).CreateStageSummary(context.Background(), NewStageData("IV"))
	require.NoError(t, err)
	assert.Equal(t, "IV", summary.Stage)
	assert.Empty(t, summary.Tables)
}

func TestCreateStageSummary_MissingField(t *testing.T) {
	data := NewStageData("I")
	data.MutationTables = []*Table{
		mutationTable([2]string{"TP53", "Silent"}),
		{Columns: []string{"Gene"}, Rows: [][]string{{"KRAS"}}},
	}
	summary, err := NewSummarizer(nil, DefaultSummarizerConfig()).CreateStageSummary(context.Background(), data)
	require.NoError(t, err, "union keeps both required columns")
	genes, _ := summary.Table(domain.SheetTopMutatedGenes)
	assert.Equal(t, []domain.SummaryRow{{Label: "TP53", Value: 1}}, genes.Rows)

	data.MutationTables = []*Table{{Columns: []string{"Gene"}, Rows: [][]string{{"KRAS"}}}}
	_, err = NewSummarizer(nil, DefaultSummarizerConfig()).CreateStageSummary(context.Background(), data)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestCreateStageSummary_SampleBreakdown(t *testing.T) {
	data := NewStageData("overall")
	data.SegmentMeans = []float64{1, 2, 3}
	data.SegmentMeansBySample["S2"] = []float64{1, 2}
	data.SegmentMeansBySample["S1"] = []float64{3}
	table := mutationTable([2]string{"TP53", "Silent"}, [2]string{"KRAS", "Silent"})
	data.MutationTables = []*Table{table, table}
	data.MutationTablesBySample["S2"] = []*Table{table, table}

	s := NewSummarizer(nil, SummarizerConfig{StatsColumn: StatsColumnOverall, IncludeSampleBreakdown: true})
	summary, err := s.CreateStageSummary(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, summary.Tables, 5)

	stats, _ := summary.Table(domain.SheetCNVSegmentStats)
	assert.Equal(t, StatsColumnOverall, stats.ValueColumn)

	mutations, ok := summary.Table(domain.SheetSampleMutationCounts)
	require.True(t, ok)
	assert.Equal(t, SampleIndexLabel, mutations.IndexLabel)
	assert.Equal(t, []domain.SummaryRow{{Label: "S2", Value: 4}}, mutations.Rows)

	segments, ok := summary.Table(domain.SheetSampleSegmentCounts)
	require.True(t, ok)
	assert.Equal(t, []domain.SummaryRow{{Label: "S1", Value: 1}, {Label: "S2", Value: 2}}, segments.Rows)
}
