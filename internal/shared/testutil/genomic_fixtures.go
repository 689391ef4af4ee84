package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// MutationRow is one line of a generated MAF file.
type MutationRow struct {
	Gene           string
	Classification string
}

// SampleTree builds a base folder of stage/sample directories under a
// temporary directory.
type SampleTree struct {
	t    testing.TB
	Root string
}

// NewSampleTree creates an empty base folder removed when the test ends.
func NewSampleTree(t testing.TB) *SampleTree {
	t.Helper()
	return &SampleTree{t: t, Root: t.TempDir()}
}

// StageDir returns the stage directory, creating it.
func (s *SampleTree) StageDir(stage string) string {
	s.t.Helper()
	dir := filepath.Join(s.Root, stage)
	require.NoError(s.t, os.MkdirAll(dir, 0o755))
	return dir
}

// SampleDir returns the sample directory, creating it.
func (s *SampleTree) SampleDir(stage, sample string) string {
	s.t.Helper()
	dir := filepath.Join(s.Root, stage, sample)
	require.NoError(s.t, os.MkdirAll(dir, 0o755))
	return dir
}

// WriteFile writes raw content into a sample directory.
func (s *SampleTree) WriteFile(stage, sample, name, content string) string {
	s.t.Helper()
	path := filepath.Join(s.SampleDir(stage, sample), name)
	require.NoError(s.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteCNV writes a segment file whose segment-mean column is named column.
func (s *SampleTree) WriteCNV(stage, sample, name, column string, values ...string) string {
	s.t.Helper()
	return s.WriteFile(stage, sample, name, CNVContent(column, values...))
}

// WriteMAF writes a mutation file with a metadata preamble.
func (s *SampleTree) WriteMAF(stage, sample, name string, rows ...MutationRow) string {
	s.t.Helper()
	return s.WriteFile(stage, sample, name, MAFContent(rows...))
}

// CNVFileName returns a name classified as a CNV file.
func CNVFileName(id string) string {
	return fmt.Sprintf("%s.Copy_Number_Variation.seg.txt", id)
}

// MAFFileName returns a name classified as a mutation file.
func MAFFileName(id string) string {
	return fmt.Sprintf("%s.Simple_Nucleotide_Variation.maf", id)
}

// CNVContent renders a tab-separated segment table.
func CNVContent(column string, values ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GDC_Aliquot\tChromosome\tStart\tEnd\tNum_Probes\t%s\n", column)
	for i, v := range values {
		fmt.Fprintf(&b, "aliquot-1\tchr%d\t%d\t%d\t%d\t%s\n", i+1, 1000*(i+1), 1000*(i+2)-1, 10+i, v)
	}
	return b.String()
}

// MAFContent renders a MAF body preceded by '#' metadata lines.
func MAFContent(rows ...MutationRow) string {
	var b strings.Builder
	b.WriteString("#version gdc-1.0.0\n")
	b.WriteString("#filedate 20240101\n")
	b.WriteString("Hugo_Symbol\tEntrez_Gene_Id\tChromosome\tVariant_Classification\tTumor_Sample_Barcode\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "%s\t%d\tchr1\t%s\tTCGA-%02d\n", r.Gene, 1000+i, r.Classification, i)
	}
	return b.String()
}
