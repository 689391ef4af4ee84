package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Sheet keys produced by the summarizer.
const (
	SheetCNVSegmentStats        = "CNV_Segment_Stats"
	SheetTopMutatedGenes        = "Top_Mutated_Genes"
	SheetMutationClassification = "Mutation_Classification"
	SheetSampleMutationCounts   = "Sample_Mutation_Counts"
	SheetSampleSegmentCounts    = "Sample_Segment_Counts"
)

// Required mutation-annotation fields.
const (
	FieldHugoSymbol            = "Hugo_Symbol"
	FieldVariantClassification = "Variant_Classification"
)

// SummaryRow is one label/value line of a summary sheet.
type SummaryRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MarshalJSON writes a NaN value as null.
func (r SummaryRow) MarshalJSON() ([]byte, error) {
	out := struct {
		Label string   `json:"label"`
		Value *float64 `json:"value"`
	}{Label: r.Label}
	if !math.IsNaN(r.Value) {
		out.Value = &r.Value
	}
	return json.Marshal(out)
}

// SummaryTable is a named two-column table: an index column of labels and a
// single numeric value column. Descriptive statistics and frequency counts
// share this shape.
type SummaryTable struct {
	Name        string       `json:"name" validate:"required"`
	IndexLabel  string       `json:"index_label"`
	ValueColumn string       `json:"value_column" validate:"required"`
	Rows        []SummaryRow `json:"rows"`
}

// Value returns the value stored under label.
func (t SummaryTable) Value(label string) (float64, bool) {
	for _, row := range t.Rows {
		if row.Label == label {
			return row.Value, true
		}
	}
	return 0, false
}

// StageSummary holds the tables computed for one stage, in emit order.
// An empty Tables slice means the stage had neither CNV nor mutation data.
type StageSummary struct {
	Stage  string         `json:"stage"`
	Tables []SummaryTable `json:"tables"`
}

// Table returns the table with the given sheet key.
func (s StageSummary) Table(name string) (SummaryTable, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return SummaryTable{}, false
}

// FailedFile is one entry of the failed-files log.
type FailedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// RunMode selects the aggregation granularity of a run.
type RunMode string

const (
	RunModeStages  RunMode = "stages"
	RunModeOverall RunMode = "overall"
)

// RunStats counts what a run touched.
type RunStats struct {
	Stages        int `json:"stages"`
	Samples       int `json:"samples"`
	CNVFiles      int `json:"cnv_files"`
	MutationFiles int `json:"mutation_files"`
	IgnoredFiles  int `json:"ignored_files"`
	FailedFiles   int `json:"failed_files"`
	SegmentValues int `json:"segment_values"`
	MutationRows  int `json:"mutation_rows"`
}

// RunStatus is the outcome of a run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord describes a finished run as stored in the history database.
type RunRecord struct {
	ID         string    `json:"id" db:"id" validate:"required,uuid"`
	Mode       RunMode   `json:"mode" db:"mode"`
	Status     RunStatus `json:"status" db:"status"`
	Error      string    `json:"error,omitempty" db:"error"`
	BaseFolder string    `json:"base_folder" db:"base_folder"`
	OutputPath string    `json:"output_path" db:"output_path"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
	Stats      RunStats  `json:"stats"`
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Add accumulates other into s.
func (s *RunStats) Add(other RunStats) {
	s.Stages += other.Stages
	s.Samples += other.Samples
	s.CNVFiles += other.CNVFiles
	s.MutationFiles += other.MutationFiles
	s.IgnoredFiles += other.IgnoredFiles
	s.FailedFiles += other.FailedFiles
	s.SegmentValues += other.SegmentValues
	s.MutationRows += other.MutationRows
}
