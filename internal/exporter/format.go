package exporter

import (
	"math"
	"strconv"
)

// formatValue renders a summary value for text output: shortest exact
// decimal, no exponent, and an empty string for NaN.
func formatValue(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cellValue converts a summary value for a spreadsheet cell. Whole numbers are
// written as integers, NaN as an empty cell.
func cellValue(f float64) (any, bool) {
	switch {
	case math.IsNaN(f):
		return nil, false
	case f == math.Trunc(f) && math.Abs(f) < 1<<53:
		return int64(f), true
	default:
		return f, true
	}
}
