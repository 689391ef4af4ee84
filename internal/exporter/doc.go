// Package exporter writes summary tables to disk.
//
// WorkbookExporter produces one .xlsx workbook with a sheet per table;
// CSVExporter writes one UTF-8 (BOM-prefixed) CSV file per table into a
// directory. Both lay sheets out the same way: per-stage tables are titled
// "<stage>_<table>" and overall tables keep their own names. Titles are
// limited to 31 characters; longer ones keep 28 characters and gain "...".
// When truncation makes two titles collide, the later table wins.
//
// Every sheet has a bold header row naming the index column and the value
// column, followed by one row per label. NaN values are left blank.
//
// Example usage:
//
//	exp, err := exporter.New("xlsx", logger)
//	if err != nil {
//	    return err
//	}
//	err = exp.SaveStageSummaries(ctx, "ESCC_Genomic_Summary.xlsx", summaries)
package exporter
