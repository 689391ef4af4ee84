// Package config provides configuration management for genosum.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/genosum after Load)
//	2. Environment variables
//	3. A YAML configuration file
//	4. Default values
//
// # Environment Variables
//
// All environment variables follow the pattern GENOSUM_*:
//
//	GENOSUM_BASE_FOLDER=./grade_generalised
//	GENOSUM_MODE=overall
//	GENOSUM_FAILURE_LOG_PATH=failed_files.log
//	GENOSUM_MISSING_COLUMN_POLICY=log
//	GENOSUM_LOGGING_LEVEL=debug
//	GENOSUM_TELEMETRY_METRICS_FILE=metrics.prom
//
// # Validation
//
// Load validates enumerated options (mode, output format, missing-column
// policy, log level) and numeric bounds with validator struct tags. Any
// failure is returned as a CONFIG AppError.
package config
