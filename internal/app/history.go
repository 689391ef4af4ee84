package app

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"genosum/internal/errors"
	"genosum/internal/store"
	"genosum/pkg/contracts/domain"
)

type historyOptions struct {
	limit  int
	runID  string
	asJSON bool
}

// runDetail is the JSON shape of a single run.
type runDetail struct {
	Run       domain.RunRecord      `json:"run"`
	Failures  []domain.FailedFile   `json:"failures"`
	Summaries []domain.StageSummary `json:"summaries,omitempty"`
}

func newHistoryCmd(flags *flagValues) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded in the history database, most recent first.

Use --run to show one run with its failed files and summary tables.`,
		Example: `  # Ten most recent runs
  genosum history --history-db genosum.db

  # One run in detail
  genosum history --history-db genosum.db --run 2f0c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags, "")
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return errors.NewConfigError("history requires --history-db or history_db in the config", nil)
			}

			// No schema creation: an uninitialized database reports ErrNotInitialized.
			s, err := store.New(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer s.Close()

			if opts.runID != "" {
				return showRun(cmd, s, opts)
			}
			return listRuns(cmd, s, opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 10, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.runID, "run", "", "show a single run in detail")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

func listRuns(cmd *cobra.Command, s *store.Store, opts *historyOptions) error {
	runs, err := s.ListRuns(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return printJSON(cmd.OutOrStdout(), runs)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), RenderRunTable(runs))
	return err
}

func showRun(cmd *cobra.Command, s *store.Store, opts *historyOptions) error {
	ctx := cmd.Context()
	run, err := s.GetRun(ctx, opts.runID)
	if err != nil {
		return err
	}
	failures, err := s.ListFailures(ctx, run.ID)
	if err != nil {
		return err
	}
	summaries, err := s.GetSummaries(ctx, run.ID)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return printJSON(cmd.OutOrStdout(), runDetail{Run: *run, Failures: failures, Summaries: summaries})
	}
	_, err = io.WriteString(cmd.OutOrStdout(), RenderRunDetail(*run, failures, summaries))
	return err
}

// RenderRunTable formats runs as a fixed-width table.
func RenderRunTable(runs []domain.RunRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-36s  %-8s  %-9s  %-19s  %-9s  %6s  %7s  %6s\n",
		"RUN ID", "MODE", "STATUS", "STARTED", "DURATION", "STAGES", "SAMPLES", "FAILED"))

	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-36s  %-8s  %-9s  %-19s  %-9s  %6d  %7d  %6d\n",
			r.ID,
			r.Mode,
			r.Status,
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration().Round(time.Millisecond),
			r.Stats.Stages,
			r.Stats.Samples,
			r.Stats.FailedFiles,
		))
	}
	return sb.String()
}

// RenderRunDetail formats one run with its failed files and summary tables.
func RenderRunDetail(run domain.RunRecord, failures []domain.FailedFile, summaries []domain.StageSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:       %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Mode:      %s\n", run.Mode))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", run.Status))
	if run.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:     %s\n", run.Error))
	}
	sb.WriteString(fmt.Sprintf("Base:      %s\n", run.BaseFolder))
	sb.WriteString(fmt.Sprintf("Output:    %s\n", run.OutputPath))
	sb.WriteString(fmt.Sprintf("Started:   %s\n", run.StartedAt.Local().Format(time.DateTime)))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", run.Duration().Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Files:     %d cnv, %d mutation, %d ignored, %d failed\n",
		run.Stats.CNVFiles, run.Stats.MutationFiles, run.Stats.IgnoredFiles, run.Stats.FailedFiles))

	if len(failures) > 0 {
		sb.WriteString("\nFailed files:\n")
		for _, f := range failures {
			sb.WriteString(fmt.Sprintf("  %s\t%s\n", f.Path, f.Reason))
		}
	}

	for _, summary := range summaries {
		for _, table := range summary.Tables {
			sb.WriteString(fmt.Sprintf("\n[%s] %s\n", summary.Stage, table.Name))
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", table.IndexLabel, table.ValueColumn))
			for _, row := range table.Rows {
				sb.WriteString(fmt.Sprintf("  %-24s %s\n", row.Label, formatNumber(row.Value)))
			}
		}
	}
	return sb.String()
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
