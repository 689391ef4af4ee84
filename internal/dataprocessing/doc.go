// Package dataprocessing turns a stage directory of genomic sample folders
// into summary tables.
//
// A run reads two kinds of tab-separated files per sample: copy-number
// segment files, from which the segment-mean column is collected, and
// Mutation Annotation Format files, which are kept as whole tables. The
// StageProcessor walks the sample directories and fills a StageData; the
// Summarizer reduces it to descriptive statistics of the segment means and
// frequency tables of mutated genes and variant classifications.
//
// Files that cannot be read or lack a usable segment-mean column are skipped
// and reported through a FailureRecorder. Only directory listing errors,
// failure-log write errors and mutation data without the required fields
// stop a run.
package dataprocessing
