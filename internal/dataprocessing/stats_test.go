package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

func describeMap(rows []domain.SummaryRow) map[string]float64 {
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		m[r.Label] = r.Value
	}
	return m
}

func TestDescribe(t *testing.T) {
	rows := Describe([]float64{1, 2, 3, 4, 5})

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	assert.Equal(t, DescribeLabels, labels)

	stats := describeMap(rows)
	assert.Equal(t, 5.0, stats["count"])
	assert.Equal(t, 3.0, stats["mean"])
	assert.InDelta(t, 1.5811388300841898, stats["std"], 1e-12)
	assert.Equal(t, 1.0, stats["min"])
	assert.Equal(t, 2.0, stats["25%"])
	assert.Equal(t, 3.0, stats["50%"])
	assert.Equal(t, 4.0, stats["75%"])
	assert.Equal(t, 5.0, stats["max"])
}

func TestDescribe_Interpolation(t *testing.T) {
	stats := describeMap(Describe([]float64{4, 1, 3, 2}))

	assert.Equal(t, 1.75, stats["25%"])
	assert.Equal(t, 2.5, stats["50%"])
	assert.Equal(t, 3.25, stats["75%"])
}

func TestDescribe_OrderIndependent(t *testing.T) {
	a := Describe([]float64{0.1, -0.2, 0.3, 0.7, 1e-9, -4})
	b := Describe([]float64{-4, 0.7, 1e-9, 0.3, 0.1, -0.2})
	assert.Equal(t, a, b)
}

func TestDescribe_SkipsNaN(t *testing.T) {
	stats := describeMap(Describe([]float64{math.NaN(), 2, math.NaN(), 4}))

	assert.Equal(t, 2.0, stats["count"])
	assert.Equal(t, 3.0, stats["mean"])
	assert.Equal(t, 2.0, stats["min"])
}

func TestDescribe_Small(t *testing.T) {
	single := describeMap(Describe([]float64{7}))
	assert.Equal(t, 1.0, single["count"])
	assert.Equal(t, 7.0, single["mean"])
	assert.True(t, math.IsNaN(single["std"]))
	assert.Equal(t, 7.0, single["50%"])

	empty := describeMap(Describe([]float64{math.NaN()}))
	assert.Equal(t, 0.0, empty["count"])
	for _, label := range DescribeLabels[1:] {
		assert.True(t, math.IsNaN(empty[label]), label)
	}
}

func TestValueCounts(t *testing.T) {
	var rows [][]string
	add := func(gene string, n int) {
		for i := 0; i < n; i++ {
			rows = append(rows, []string{gene})
		}
	}
	add("KRAS", 3)
	add("TP53", 5)
	add("EGFR", 3)
	add("NA", 4)
	add("", 2)
	add("PIK3CA", 1)
	table := &Table{Columns: []string{domain.FieldHugoSymbol}, Rows: rows}

	t.Run("top two", func(t *testing.T) {
		got, err := ValueCounts(table, domain.FieldHugoSymbol, 2)
		require.NoError(t, err)
		assert.Equal(t, []domain.SummaryRow{
			{Label: "TP53", Value: 5},
			{Label: "EGFR", Value: 3},
		}, got)
	})

	t.Run("no limit", func(t *testing.T) {
		got, err := ValueCounts(table, domain.FieldHugoSymbol, 0)
		require.NoError(t, err)
		assert.Equal(t, []domain.SummaryRow{
			{Label: "TP53", Value: 5},
			{Label: "EGFR", Value: 3},
			{Label: "KRAS", Value: 3},
			{Label: "PIK3CA", Value: 1},
		}, got)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := ValueCounts(table, domain.FieldVariantClassification, 0)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	})
}
