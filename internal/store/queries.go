package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

// timeFormat has fixed width so stored timestamps sort lexicographically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, mode, status, error, base_folder, output_path, started_at, finished_at,
	stages, samples, cnv_files, mutation_files, ignored_files, failed_files, segment_values, mutation_rows`

// Run operations

// RecordRun stores a run together with its failed files and summary tables.
// Everything is written in one transaction.
func (s *Store) RecordRun(ctx context.Context, run domain.RunRecord, failures []domain.FailedFile, summaries []domain.StageSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.Mode),
		string(run.Status),
		nullString(run.Error),
		run.BaseFolder,
		run.OutputPath,
		run.StartedAt.UTC().Format(timeFormat),
		run.FinishedAt.UTC().Format(timeFormat),
		run.Stats.Stages,
		run.Stats.Samples,
		run.Stats.CNVFiles,
		run.Stats.MutationFiles,
		run.Stats.IgnoredFiles,
		run.Stats.FailedFiles,
		run.Stats.SegmentValues,
		run.Stats.MutationRows,
	)
	if err != nil {
		return wrapQueryError(fmt.Sprintf("failed to insert run %s", run.ID), err)
	}

	for i, f := range failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_failures (run_id, position, path, reason) VALUES (?, ?, ?, ?)`,
			run.ID, i, f.Path, f.Reason,
		); err != nil {
			return wrapQueryError("failed to insert run failure", err)
		}
	}

	for si, summary := range summaries {
		for ti, table := range summary.Tables {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO summary_tables
				(run_id, stage_position, stage, table_position, name, index_label, value_column)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, run.ID, si, summary.Stage, ti, table.Name, table.IndexLabel, table.ValueColumn); err != nil {
				return wrapQueryError("failed to insert summary table", err)
			}

			for ri, row := range table.Rows {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO summary_rows
					(run_id, stage_position, table_position, row_position, label, value)
					VALUES (?, ?, ?, ?, ?, ?)
				`, run.ID, si, ti, ri, row.Label, nullFloat(row.Value)); err != nil {
					return wrapQueryError("failed to insert summary row", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit run", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("run %s", id), err)
	}
	if err != nil {
		return nil, wrapQueryError(fmt.Sprintf("failed to get run %s", id), err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapQueryError("failed to list runs", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.NewStorageError("failed to scan run", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate runs", err)
	}
	return runs, nil
}

// ListFailures returns a run's failed files in the order they were recorded.
func (s *Store) ListFailures(ctx context.Context, runID string) ([]domain.FailedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, reason FROM run_failures WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, wrapQueryError("failed to list run failures", err)
	}
	defer rows.Close()

	var failures []domain.FailedFile
	for rows.Next() {
		var f domain.FailedFile
		if err := rows.Scan(&f.Path, &f.Reason); err != nil {
			return nil, errors.NewStorageError("failed to scan run failure", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate run failures", err)
	}
	return failures, nil
}

// GetSummaries rebuilds the summary tables stored for a run. Stages that
// produced no tables are not stored and do not appear.
func (s *Store) GetSummaries(ctx context.Context, runID string) ([]domain.StageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.stage_position, t.stage, t.table_position, t.name, t.index_label, t.value_column,
		       r.label, r.value
		FROM summary_tables t
		LEFT JOIN summary_rows r
		  ON r.run_id = t.run_id
		 AND r.stage_position = t.stage_position
		 AND r.table_position = t.table_position
		WHERE t.run_id = ?
		ORDER BY t.stage_position, t.table_position, r.row_position
	`, runID)
	if err != nil {
		return nil, wrapQueryError("failed to load summaries", err)
	}
	defer rows.Close()

	var summaries []domain.StageSummary
	lastStage, lastTable := -1, -1
	for rows.Next() {
		var (
			stagePos, tablePos int
			stage              string
			table              domain.SummaryTable
			label              sql.NullString
			value              sql.NullFloat64
		)
		if err := rows.Scan(&stagePos, &stage, &tablePos, &table.Name, &table.IndexLabel, &table.ValueColumn, &label, &value); err != nil {
			return nil, errors.NewStorageError("failed to scan summary row", err)
		}

		if stagePos != lastStage {
			summaries = append(summaries, domain.StageSummary{Stage: stage})
			lastStage, lastTable = stagePos, -1
		}
		current := &summaries[len(summaries)-1]
		if tablePos != lastTable {
			current.Tables = append(current.Tables, table)
			lastTable = tablePos
		}
		if label.Valid {
			t := &current.Tables[len(current.Tables)-1]
			v := math.NaN()
			if value.Valid {
				v = value.Float64
			}
			t.Rows = append(t.Rows, domain.SummaryRow{Label: label.String, Value: v})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate summary rows", err)
	}
	return summaries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunRecord, error) {
	var (
		run                   domain.RunRecord
		mode, status          string
		runErr                sql.NullString
		startedAt, finishedAt string
	)
	err := row.Scan(
		&run.ID,
		&mode,
		&status,
		&runErr,
		&run.BaseFolder,
		&run.OutputPath,
		&startedAt,
		&finishedAt,
		&run.Stats.Stages,
		&run.Stats.Samples,
		&run.Stats.CNVFiles,
		&run.Stats.MutationFiles,
		&run.Stats.IgnoredFiles,
		&run.Stats.FailedFiles,
		&run.Stats.SegmentValues,
		&run.Stats.MutationRows,
	)
	if err != nil {
		return nil, err
	}

	run.Mode = domain.RunMode(mode)
	run.Status = domain.RunStatus(status)
	run.Error = runErr.String

	if run.StartedAt, err = time.Parse(timeFormat, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at for %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(timeFormat, finishedAt); err != nil {
		return nil, fmt.Errorf("failed to parse finished_at for %s: %w", run.ID, err)
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat stores NaN as NULL; SQLite has no NaN.
func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: !math.IsNaN(f)}
}
