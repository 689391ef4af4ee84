package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV files relative to a base directory.
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, replacing any
// existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// WriteSimpleCSV writes headers and records with a BOM prefix.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}

// CSVExporter writes each summary table as "<sheet title>.csv" inside the
// output directory.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// SaveStageSummaries implements SummaryExporter; path is a directory.
func (e *CSVExporter) SaveStageSummaries(ctx context.Context, path string, summaries []domain.StageSummary) error {
	return e.save(ctx, path, stageSheets(ctx, e.logger, summaries))
}

// SaveOverallSummary implements SummaryExporter; path is a directory.
func (e *CSVExporter) SaveOverallSummary(ctx context.Context, path string, summary domain.StageSummary) error {
	return e.save(ctx, path, overallSheets(ctx, e.logger, summary))
}

func (e *CSVExporter) save(ctx context.Context, dir string, sheets []Sheet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}
	if len(sheets) == 0 {
		e.logger.WarnContext(ctx, "No summary tables to export", slog.String("path", dir))
		return nil
	}

	writer := NewCSVWriter(dir)
	for _, sheet := range sheets {
		records := make([][]string, len(sheet.Table.Rows))
		for i, row := range sheet.Table.Rows {
			records[i] = []string{row.Label, formatValue(row.Value)}
		}
		name := sheet.Title + ".csv"
		if err := writer.WriteSimpleCSV(name, sheet.Header(), records); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write %s", name), err)
		}
	}

	e.logger.InfoContext(ctx, "Summary CSV files saved",
		slog.String("path", dir),
		slog.Int("files", len(sheets)))
	return nil
}

// New returns the exporter for an output format ("xlsx" or "csv").
func New(format string, logger *slog.Logger) (SummaryExporter, error) {
	switch format {
	case "", "xlsx":
		return NewWorkbookExporter(logger), nil
	case "csv":
		return NewCSVExporter(logger), nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported output format %q", format), nil)
	}
}
