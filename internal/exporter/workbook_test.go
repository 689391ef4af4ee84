package exporter

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"genosum/internal/shared/testutil"
	"genosum/pkg/contracts/domain"
)

func sampleSummaries() []domain.StageSummary {
	return []domain.StageSummary{
		{
			Stage: "I",
			Tables: []domain.SummaryTable{
				{
					Name:        domain.SheetCNVSegmentStats,
					ValueColumn: "Value",
					Rows: []domain.SummaryRow{
						{Label: "count", Value: 1},
						{Label: "mean", Value: 0.25},
						{Label: "std", Value: math.NaN()},
					},
				},
				{
					Name:        domain.SheetTopMutatedGenes,
					IndexLabel:  domain.FieldHugoSymbol,
					ValueColumn: "Mutation_Count",
					Rows:        []domain.SummaryRow{{Label: "TP53", Value: 2}, {Label: "1", Value: 1}},
				},
			},
		},
		{Stage: "II"},
		{
			Stage: "IIIA",
			Tables: []domain.SummaryTable{
				{
					Name:        domain.SheetMutationClassification,
					IndexLabel:  domain.FieldVariantClassification,
					ValueColumn: "Count",
					Rows:        []domain.SummaryRow{{Label: "Missense_Mutation", Value: 3}},
				},
			},
		},
	}
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookExporter_SaveStageSummaries(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "out", "summary.xlsx")

	err := NewWorkbookExporter(logger).SaveStageSummaries(context.Background(), path, sampleSummaries())
	require.NoError(t, err)

	f := openWorkbook(t, path)
	assert.Equal(t, []string{
		"I_CNV_Segment_Stats",
		"I_Top_Mutated_Genes",
		"IIIA_Mutation_Classification",
	}, f.GetSheetList())

	rows, err := f.GetRows("I_CNV_Segment_Stats")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"", "Value"},
		{"count", "1"},
		{"mean", "0.25"},
		{"std"},
	}, rows)

	rows, err = f.GetRows("I_Top_Mutated_Genes")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Hugo_Symbol", "Mutation_Count"},
		{"TP53", "2"},
		{"1", "1"},
	}, rows)

	styleID, err := f.GetCellStyle("I_Top_Mutated_Genes", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Summary workbook saved")
}

func TestWorkbookExporter_SaveOverallSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overall.xlsx")
	summary := domain.StageSummary{
		Stage: "overall",
		Tables: []domain.SummaryTable{
			{Name: domain.SheetCNVSegmentStats, ValueColumn: "CNV Segment Mean Statistics", Rows: []domain.SummaryRow{{Label: "count", Value: 3}}},
			{Name: domain.SheetTopMutatedGenes, IndexLabel: domain.FieldHugoSymbol, ValueColumn: "Mutation_Count"},
			{Name: domain.SheetMutationClassification, IndexLabel: domain.FieldVariantClassification, ValueColumn: "Count"},
		},
	}

	require.NoError(t, NewWorkbookExporter(nil).SaveOverallSummary(context.Background(), path, summary))

	f := openWorkbook(t, path)
	assert.Equal(t, []string{"CNV_Segment_Stats", "Top_Mutated_Genes", "Mutation_Classification"}, f.GetSheetList())

	header, err := f.GetCellValue("CNV_Segment_Stats", "B1")
	require.NoError(t, err)
	assert.Equal(t, "CNV Segment Mean Statistics", header)
}

func TestWorkbookExporter_Empty(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	err := NewWorkbookExporter(logger).SaveStageSummaries(context.Background(), path, []domain.StageSummary{{Stage: "I"}})
	require.NoError(t, err)

	f := openWorkbook(t, path)
	assert.Equal(t, []string{EmptyWorkbookSheet}, f.GetSheetList())
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "No summary tables")
}

func TestWorkbookExporter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, NewWorkbookExporter(nil).SaveStageSummaries(context.Background(), blocker, nil))

	err := NewWorkbookExporter(nil).SaveStageSummaries(context.Background(), filepath.Join(blocker, "x.xlsx"), sampleSummaries())
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	exp, err := New("xlsx", nil)
	require.NoError(t, err)
	assert.IsType(t, &WorkbookExporter{}, exp)

	exp, err = New("csv", nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVExporter{}, exp)

	_, err = New("parquet", nil)
	assert.Error(t, err)
}
