package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"genosum/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	BaseFolder             string          `yaml:"base_folder" envconfig:"BASE_FOLDER" validate:"required"`
	OutputPath             string          `yaml:"output_path" envconfig:"OUTPUT_PATH"`
	FailureLogPath         string          `yaml:"failure_log_path" envconfig:"FAILURE_LOG_PATH" validate:"required"`
	Mode                   string          `yaml:"mode" envconfig:"MODE" validate:"oneof=stages overall"`
	MissingColumnPolicy    string          `yaml:"missing_column_policy" envconfig:"MISSING_COLUMN_POLICY" validate:"oneof=log skip"`
	TopGenes               int             `yaml:"top_genes" envconfig:"TOP_GENES" validate:"min=1"`
	OutputFormat           string          `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=xlsx csv"`
	IncludeSampleBreakdown bool            `yaml:"include_sample_breakdown" envconfig:"INCLUDE_SAMPLE_BREAKDOWN"`
	HistoryDB              string          `yaml:"history_db" envconfig:"HISTORY_DB"`
	Telemetry              TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Logging                LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// TelemetryConfig controls where run metrics and spans are written.
// Both are disabled when their path is empty.
type TelemetryConfig struct {
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration from defaults, an optional YAML file and
// GENOSUM_* environment variables, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	// Fields without a matching variable are left untouched, so file
	// values survive unless explicitly overridden.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s=%s, got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
		} else {
			fields = append(fields, err.Error())
		}
		return errors.NewConfigError("config validation failed: "+strings.Join(fields, "; "), err)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return errors.NewConfigError("logging.file_path is required when logging to a file", nil)
	}

	return nil
}

// ResolveOutputPath returns the configured output path, or the default name
// for the current mode. Per-stage runs embed the run timestamp.
func (c *Config) ResolveOutputPath(now time.Time) string {
	if c.OutputPath != "" {
		return c.OutputPath
	}

	var name string
	if c.Mode == ModeOverall {
		name = OverallOutputName
	} else {
		name = StageOutputPrefix + now.Format(OutputTimestampFormat)
	}

	if c.OutputFormat == FormatCSV {
		return name
	}
	return name + "." + FormatXLSX
}

// LogMissingColumns reports whether a CNV file without a segment-mean
// column is recorded in the failed-files log.
func (c *Config) LogMissingColumns() bool {
	return c.MissingColumnPolicy == PolicyLog
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		BaseFolder:          DefaultBaseFolder,
		FailureLogPath:      DefaultFailureLogPath,
		Mode:                ModeStages,
		MissingColumnPolicy: PolicyLog,
		TopGenes:            DefaultTopGenes,
		OutputFormat:        FormatXLSX,
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/genosum.log",
		},
	}
}
