package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

// SummaryExporter persists summary tables.
type SummaryExporter interface {
	// SaveStageSummaries writes every stage's tables, titled "<stage>_<table>".
	SaveStageSummaries(ctx context.Context, path string, summaries []domain.StageSummary) error
	// SaveOverallSummary writes the tables of merged data under their own names.
	SaveOverallSummary(ctx context.Context, path string, summary domain.StageSummary) error
}

// WorkbookExporter writes summaries into a single .xlsx workbook, one sheet
// per table.
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger.With(slog.String("component", "workbook_exporter"))}
}

// SaveStageSummaries implements SummaryExporter.
func (e *WorkbookExporter) SaveStageSummaries(ctx context.Context, path string, summaries []domain.StageSummary) error {
	return e.save(ctx, path, stageSheets(ctx, e.logger, summaries))
}

// SaveOverallSummary implements SummaryExporter.
func (e *WorkbookExporter) SaveOverallSummary(ctx context.Context, path string, summary domain.StageSummary) error {
	return e.save(ctx, path, overallSheets(ctx, e.logger, summary))
}

func (e *WorkbookExporter) save(ctx context.Context, path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)

	if len(sheets) == 0 {
		e.logger.WarnContext(ctx, "No summary tables to export, writing empty workbook",
			slog.String("path", path))
		if err := f.SetSheetName(defaultSheet, EmptyWorkbookSheet); err != nil {
			return errors.NewStorageError("failed to name placeholder sheet", err)
		}
		return e.saveFile(ctx, f, path, 0)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.NewStorageError("failed to create header style", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sheet.Title)
		} else {
			_, err = f.NewSheet(sheet.Title)
		}
		if err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to create sheet %q", sheet.Title), err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write sheet %q", sheet.Title), err)
		}
		e.logger.DebugContext(ctx, "Sheet written",
			slog.String("sheet", sheet.Title),
			slog.Int("rows", len(sheet.Table.Rows)))
	}
	f.SetActiveSheet(0)

	return e.saveFile(ctx, f, path, len(sheets))
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := sheet.Header()
	if err := f.SetSheetRow(sheet.Title, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Title, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, row := range sheet.Table.Rows {
		r := i + 2
		labelCell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet.Title, labelCell, row.Label); err != nil {
			return err
		}

		value, ok := cellValue(row.Value)
		if !ok {
			continue
		}
		valueCell, err := excelize.CoordinatesToCellName(2, r)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Title, valueCell, value); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) saveFile(ctx context.Context, f *excelize.File, path string, sheets int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	e.logger.InfoContext(ctx, "Summary workbook saved",
		slog.String("path", path),
		slog.Int("sheets", sheets))
	return nil
}
