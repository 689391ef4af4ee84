package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"genosum/internal/config"
	"genosum/internal/pipeline"
	"genosum/pkg/contracts"
)

// flagValues holds command-line overrides. Only flags the user actually set
// are applied on top of the loaded configuration.
type flagValues struct {
	configFile             string
	baseFolder             string
	output                 string
	failureLog             string
	format                 string
	missingColumnPolicy    string
	topGenes               int
	historyDB              string
	metricsFile            string
	traceFile              string
	logLevel               string
	logFormat              string
	includeSampleBreakdown bool
}

// NewRootCmd builds the genosum command tree.
func NewRootCmd() *cobra.Command {
	flags := &flagValues{}

	root := &cobra.Command{
		Use:   "genosum",
		Short: "Summarize CNV and mutation data across tumor stages",
		Long: `genosum walks a base folder of stage directories, each holding one
directory per sample, and summarizes the copy-number segment means and
mutation annotation files it finds.

Without a subcommand the configured mode is used (stages by default).

Examples:
  # One sheet set per stage, timestamped workbook
  genosum stages --base-folder ./grade_generalised

  # All stages merged into one summary
  genosum overall --output overall.xlsx

  # Show recorded runs
  genosum history --history-db genosum.db`,
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, flags, "")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&flags.baseFolder, "base-folder", "", "folder containing one directory per stage")
	pf.StringVarP(&flags.output, "output", "o", "", "output workbook path, or directory for csv")
	pf.StringVar(&flags.failureLog, "failure-log", "", "failed-files log path")
	pf.StringVar(&flags.format, "format", "", "output format (xlsx or csv)")
	pf.StringVar(&flags.missingColumnPolicy, "missing-column-policy", "", "log or skip CNV files without a segment mean column")
	pf.IntVar(&flags.topGenes, "top-genes", 0, "number of genes in the top mutated genes table")
	pf.StringVar(&flags.historyDB, "history-db", "", "SQLite database recording run history")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")
	pf.StringVar(&flags.traceFile, "trace-file", "", "write run spans as JSON to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (json or text)")

	root.AddCommand(
		newStagesCmd(flags),
		newOverallCmd(flags),
		newHistoryCmd(flags),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree, cancelling the run on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func newStagesCmd(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Summarize each stage separately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, flags, config.ModeStages)
		},
	}
}

func newOverallCmd(flags *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overall",
		Short: "Summarize all stages merged together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, flags, config.ModeOverall)
		},
	}
	cmd.Flags().BoolVar(&flags.includeSampleBreakdown, "include-sample-breakdown", false, "add per-sample count sheets")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, contracts.GetFullVersionString())
			return err
		},
	}
}

// loadConfig layers flag overrides on top of defaults, the config file and
// the environment, then validates the result.
func loadConfig(cmd *cobra.Command, flags *flagValues, mode string) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("base-folder") {
		cfg.BaseFolder = flags.baseFolder
	}
	if changed("output") {
		cfg.OutputPath = flags.output
	}
	if changed("failure-log") {
		cfg.FailureLogPath = flags.failureLog
	}
	if changed("format") {
		cfg.OutputFormat = flags.format
	}
	if changed("missing-column-policy") {
		cfg.MissingColumnPolicy = flags.missingColumnPolicy
	}
	if changed("top-genes") {
		cfg.TopGenes = flags.topGenes
	}
	if changed("history-db") {
		cfg.HistoryDB = flags.historyDB
	}
	if changed("metrics-file") {
		cfg.Telemetry.MetricsFile = flags.metricsFile
	}
	if changed("trace-file") {
		cfg.Telemetry.TraceFile = flags.traceFile
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if changed("include-sample-breakdown") {
		cfg.IncludeSampleBreakdown = flags.includeSampleBreakdown
	}
	if mode != "" {
		cfg.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSummary(cmd *cobra.Command, flags *flagValues, mode string) (err error) {
	cfg, err := loadConfig(cmd, flags, mode)
	if err != nil {
		return err
	}

	application, err := NewApplication(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := application.Close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	result, err := application.Run(cmd.Context())
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

func printResult(w io.Writer, result *pipeline.Result) error {
	s := result.Stats
	_, err := fmt.Fprintf(w,
		"Run %s (%s) wrote %s\n  stages: %d  samples: %d  cnv files: %d  mutation files: %d  failed files: %d\n",
		result.RunID, result.Mode, result.OutputPath,
		s.Stages, s.Samples, s.CNVFiles, s.MutationFiles, s.FailedFiles)
	return err
}
