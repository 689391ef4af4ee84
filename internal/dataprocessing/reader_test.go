package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genosum/internal/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCNVFile(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantColumns []string
		wantRows    [][]string
		wantErrType errors.ErrorType
	}{
		{
			name:        "header and rows",
			content:     "Chromosome\tSegment_Mean\n1\t0.5\n2\t-0.25\n",
			wantColumns: []string{"Chromosome", "Segment_Mean"},
			wantRows:    [][]string{{"1", "0.5"}, {"2", "-0.25"}},
		},
		{
			name:        "crlf line endings and blank lines",
			content:     "A\tB\r\n\r\n1\t2\r\n\r\n3\t4\r\n",
			wantColumns: []string{"A", "B"},
			wantRows:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:        "short rows are padded",
			content:     "A\tB\tC\n1\n",
			wantColumns: []string{"A", "B", "C"},
			wantRows:    [][]string{{"1", "", ""}},
		},
		{
			name:        "duplicate and blank header names",
			content:     "A\tA\t\tA.1\tA\nx\ty\tz\tw\tv\n",
			wantColumns: []string{"A", "A.1", "Unnamed: 2", "A.1.1", "A.2"},
			wantRows:    [][]string{{"x", "y", "z", "w", "v"}},
		},
		{
			name:        "byte order mark is dropped",
			content:     "\xEF\xBB\xBFSegment_Mean\n1\n",
			wantColumns: []string{"Segment_Mean"},
			wantRows:    [][]string{{"1"}},
		},
		{
			name:        "header only",
			content:     "A\tB\n",
			wantColumns: []string{"A", "B"},
		},
		{
			name:        "long row is an error",
			content:     "A\tB\n1\t2\t3\n",
			wantErrType: errors.ErrTypeParsing,
		},
		{
			name:        "empty file is an error",
			content:     "",
			wantErrType: errors.ErrTypeParsing,
		},
		{
			name:        "invalid utf-8 is an error",
			content:     "A\n\xff\xfe\n",
			wantErrType: errors.ErrTypeParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCNVFile(writeTemp(t, "x.Copy_Number_Variation.txt", tt.content))
			if tt.wantErrType != "" {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, tt.wantErrType), "got %v", err)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, table.Columns)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestReadCNVFile_Missing(t *testing.T) {
	_, err := ReadCNVFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestReadMAFFile(t *testing.T) {
	content := "#version 2.4\n" +
		"#comment\tline\n" +
		"Hugo_Symbol\tVariant_Classification\n" +
		"TP53\tMissense_Mutation\n" +
		"#trailing comment\n" +
		"KRAS\tSilent\n"

	table, err := ReadMAFFile(writeTemp(t, "a.maf", content))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hugo_Symbol", "Variant_Classification"}, table.Columns)
	assert.Equal(t, [][]string{{"TP53", "Missense_Mutation"}, {"KRAS", "Silent"}}, table.Rows)
	assert.Equal(t, 2, table.Len())
}

func TestReadMAFFile_OnlyComments(t *testing.T) {
	_, err := ReadMAFFile(writeTemp(t, "a.maf", "#only\n#metadata\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	assert.Contains(t, err.Error(), "no columns to parse")
}

func TestReadMAFFile_IndentedHashIsData(t *testing.T) {
	table, err := ReadMAFFile(writeTemp(t, "a.maf", "Hugo_Symbol\n #x\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{" #x"}}, table.Rows)
}
