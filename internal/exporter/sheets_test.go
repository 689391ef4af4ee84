package exporter

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genosum/internal/shared/testutil"
	"genosum/pkg/contracts/domain"
)

func TestSheetTitle(t *testing.T) {
	tests := []struct {
		name  string
		stage string
		table string
		want  string
	}{
		{name: "short", stage: "I", table: "CNV_Segment_Stats", want: "I_CNV_Segment_Stats"},
		{name: "exactly 31", stage: "Stage_IIIA", table: "CNV_Segment_Stats_XY", want: "Stage_IIIA_CNV_Segment_Stats_XY"},
		{name: "35 characters", stage: "Stage_IIIB", table: "Mutation_Classification_", want: "Stage_IIIB_Mutation_Classifi..."},
		{name: "invalid characters", stage: "I:II", table: "Top", want: "I_II_Top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SheetTitle(tt.stage, tt.table)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxSheetTitleLength)
		})
	}
}

func TestSheetTitle_LengthBoundary(t *testing.T) {
	long := SheetTitle(strings.Repeat("a", 10), strings.Repeat("b", 24))
	require.Equal(t, 35, len("aaaaaaaaaa_")+24)
	assert.Len(t, long, 31)
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.Equal(t, strings.Repeat("a", 10)+"_"+strings.Repeat("b", 17)+"...", long)
}

func TestSheetTitle_CountsCharacters(t *testing.T) {
	stage := strings.Repeat("é", 20)
	got := SheetTitle(stage, "Top_Mutated_Genes")

	assert.Equal(t, MaxSheetTitleLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestStageSheets_Collision(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	prefix := strings.Repeat("S", 30)

	summaries := []domain.StageSummary{
		{Stage: prefix + "_1", Tables: []domain.SummaryTable{{Name: domain.SheetTopMutatedGenes, ValueColumn: "Mutation_Count"}}},
		{Stage: "I", Tables: []domain.SummaryTable{{Name: domain.SheetCNVSegmentStats, ValueColumn: "Value"}}},
		{Stage: prefix + "_2", Tables: []domain.SummaryTable{{Name: domain.SheetTopMutatedGenes, ValueColumn: "Other"}}},
	}

	sheets := stageSheets(context.Background(), logger, summaries)

	require.Len(t, sheets, 2)
	assert.Equal(t, "I_CNV_Segment_Stats", sheets[0].Title)
	assert.Equal(t, "Other", sheets[1].Table.ValueColumn)
	assert.True(t, handler.ContainsMessage("Sheet title collision"))
}

func TestOverallSheets(t *testing.T) {
	summary := domain.StageSummary{Stage: "overall", Tables: []domain.SummaryTable{
		{Name: domain.SheetCNVSegmentStats},
		{Name: domain.SheetTopMutatedGenes},
		{Name: domain.SheetMutationClassification},
	}}

	logger, _ := testutil.NewTestLogger(t)
	sheets := overallSheets(context.Background(), logger, summary)

	titles := make([]string, len(sheets))
	for i, s := range sheets {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"CNV_Segment_Stats", "Top_Mutated_Genes", "Mutation_Classification"}, titles)
}
