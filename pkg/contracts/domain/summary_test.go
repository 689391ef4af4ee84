package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryTable_Value(t *testing.T) {
	table := SummaryTable{
		Name:        SheetTopMutatedGenes,
		IndexLabel:  FieldHugoSymbol,
		ValueColumn: "Mutation_Count",
		Rows: []SummaryRow{
			{Label: "TP53", Value: 5},
			{Label: "KRAS", Value: 3},
		},
	}

	v, ok := table.Value("KRAS")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = table.Value("EGFR")
	assert.False(t, ok)
}

func TestStageSummary_Table(t *testing.T) {
	summary := StageSummary{
		Stage: "IIA",
		Tables: []SummaryTable{
			{Name: SheetCNVSegmentStats, ValueColumn: "Value"},
			{Name: SheetMutationClassification, ValueColumn: "Count"},
		},
	}

	got, ok := summary.Table(SheetMutationClassification)
	assert.True(t, ok)
	assert.Equal(t, "Count", got.ValueColumn)

	_, ok = summary.Table(SheetTopMutatedGenes)
	assert.False(t, ok)

	_, ok = StageSummary{Stage: "I"}.Table(SheetCNVSegmentStats)
	assert.False(t, ok)
}

func TestRunStats_Add(t *testing.T) {
	total := RunStats{Stages: 1, Samples: 2, FailedFiles: 1}
	total.Add(RunStats{Stages: 1, Samples: 3, CNVFiles: 4, MutationFiles: 2, IgnoredFiles: 1, SegmentValues: 40, MutationRows: 9})

	assert.Equal(t, RunStats{
		Stages:        2,
		Samples:       5,
		CNVFiles:      4,
		MutationFiles: 2,
		IgnoredFiles:  1,
		FailedFiles:   1,
		SegmentValues: 40,
		MutationRows:  9,
	}, total)
}

func TestRunRecord_Duration(t *testing.T) {
	start := time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)
	r := RunRecord{StartedAt: start, FinishedAt: start.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, r.Duration())
}

func TestSummaryRow_MarshalJSON(t *testing.T) {
	rows := []SummaryRow{
		{Label: "count", Value: 1},
		{Label: "std", Value: math.NaN()},
	}

	data, err := json.Marshal(rows)
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"label":"count","value":1},{"label":"std","value":null}]`, string(data))
}
