package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"genosum/internal/errors"
)

// SegmentMeanColumn returns the first column, in header order, whose name is
// "segment_mean" or "segmentmean" ignoring case.
func SegmentMeanColumn(t *Table) (string, bool) {
	for _, name := range t.Columns {
		switch strings.ToLower(name) {
		case "segment_mean", "segmentmean":
			return name, true
		}
	}
	return "", false
}

// ParseSegmentMeans converts a segment-mean column to numbers. Missing cells
// become NaN so the result keeps one entry per row.
func ParseSegmentMeans(cells []string) ([]float64, error) {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if IsMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("row %d: %q is not numeric", i+1, cell), err)
		}
		values[i] = v
	}
	return values, nil
}
