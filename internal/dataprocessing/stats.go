package dataprocessing

import (
	"math"
	"sort"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

// DescribeLabels are the descriptive statistics in output order.
var DescribeLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max over the non-NaN values. Statistics that are undefined for the
// input (everything but count when empty, std below two values) are NaN.
// Values are sorted first so the result does not depend on input order.
func Describe(values []float64) []domain.SummaryRow {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	sort.Float64s(xs)

	n := len(xs)
	nan := math.NaN()
	mean, std, lo, hi := nan, nan, nan, nan
	q1, q2, q3 := nan, nan, nan

	if n > 0 {
		var sum float64
		for _, x := range xs {
			sum += x
		}
		mean = sum / float64(n)
		lo, hi = xs[0], xs[n-1]
		q1, q2, q3 = quantile(xs, 0.25), quantile(xs, 0.5), quantile(xs, 0.75)
	}
	if n > 1 {
		var ss float64
		for _, x := range xs {
			d := x - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	stats := []float64{float64(n), mean, std, lo, q1, q2, q3, hi}
	rows := make([]domain.SummaryRow, len(DescribeLabels))
	for i, label := range DescribeLabels {
		rows[i] = domain.SummaryRow{Label: label, Value: stats[i]}
	}
	return rows
}

// quantile interpolates linearly at position (n-1)*p of sorted xs.
func quantile(xs []float64, p float64) float64 {
	pos := float64(len(xs)-1) * p
	lower := math.Floor(pos)
	upper := math.Ceil(pos)
	if lower == upper {
		return xs[int(pos)]
	}
	frac := pos - lower
	return xs[int(lower)] + (xs[int(upper)]-xs[int(lower)])*frac
}

// ValueCounts counts the non-missing cells of field, ordered by count
// descending and then by label ascending. A positive limit keeps only the
// first limit rows. A table without the field is a validation error.
func ValueCounts(t *Table, field string, limit int) ([]domain.SummaryRow, error) {
	cells, ok := t.Column(field)
	if !ok {
		return nil, errors.NewValidationError("mutation data has no " + field + " column").
			WithContext("field", field)
	}

	counts := make(map[string]int)
	for _, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		counts[cell]++
	}

	rows := make([]domain.SummaryRow, 0, len(counts))
	for label, c := range counts {
		rows = append(rows, domain.SummaryRow{Label: label, Value: float64(c)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Label < rows[j].Label
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
