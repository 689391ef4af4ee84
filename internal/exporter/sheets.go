package exporter

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"genosum/pkg/contracts/domain"
)

const (
	// MaxSheetTitleLength is the spreadsheet limit on sheet names.
	MaxSheetTitleLength = 31
	truncatedTitleKeep  = 28
	truncationMarker    = "..."

	// EmptyWorkbookSheet names the placeholder sheet of a workbook with no data.
	EmptyWorkbookSheet = "Summary"
)

var invalidTitleChars = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SheetTitle joins a stage and table name with an underscore. Titles longer
// than MaxSheetTitleLength characters keep their first 28 characters followed
// by "...".
func SheetTitle(stage, table string) string {
	return truncateTitle(stage + "_" + table)
}

func truncateTitle(title string) string {
	title = invalidTitleChars.Replace(title)
	if utf8.RuneCountInString(title) <= MaxSheetTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:truncatedTitleKeep]) + truncationMarker
}

// Sheet is one titled table ready to be written.
type Sheet struct {
	Title string
	Table domain.SummaryTable
}

// Header returns the column headers of the sheet.
func (s Sheet) Header() []string {
	return []string{s.Table.IndexLabel, s.Table.ValueColumn}
}

// stageSheets lays out every table of every stage. When two titles collide
// after truncation the later table replaces the earlier one.
func stageSheets(ctx context.Context, logger *slog.Logger, summaries []domain.StageSummary) []Sheet {
	var sheets []Sheet
	for _, summary := range summaries {
		for _, table := range summary.Tables {
			sheets = addSheet(ctx, logger, sheets, Sheet{
				Title: SheetTitle(summary.Stage, table.Name),
				Table: table,
			})
		}
	}
	return sheets
}

// overallSheets titles each table by its own name.
func overallSheets(ctx context.Context, logger *slog.Logger, summary domain.StageSummary) []Sheet {
	var sheets []Sheet
	for _, table := range summary.Tables {
		sheets = addSheet(ctx, logger, sheets, Sheet{
			Title: truncateTitle(table.Name),
			Table: table,
		})
	}
	return sheets
}

func addSheet(ctx context.Context, logger *slog.Logger, sheets []Sheet, sheet Sheet) []Sheet {
	for i, existing := range sheets {
		if strings.EqualFold(existing.Title, sheet.Title) {
			logger.WarnContext(ctx, "Sheet title collision, replacing earlier sheet",
				slog.String("title", sheet.Title),
				slog.String("replaced", existing.Table.Name),
				slog.String("table", sheet.Table.Name))
			sheets = append(sheets[:i], sheets[i+1:]...)
			break
		}
	}
	return append(sheets, sheet)
}
