package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "positive integer", input: 123.0, expected: "123"},
		{name: "negative integer", input: -456.0, expected: "-456"},
		{name: "trailing zeros removed", input: 123.450000, expected: "123.45"},
		{name: "small decimal", input: 0.000001, expected: "0.000001"},
		{name: "large number", input: 1234567.890123, expected: "1234567.890123"},
		{name: "sample std", input: 1.5811388300841898, expected: "1.5811388300841898"},
		{name: "nan is empty", input: math.NaN(), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}

func TestCellValue(t *testing.T) {
	v, ok := cellValue(5)
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)

	v, ok = cellValue(-0.25)
	assert.True(t, ok)
	assert.Equal(t, -0.25, v)

	_, ok = cellValue(math.NaN())
	assert.False(t, ok)
}
