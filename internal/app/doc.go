// Package app wires configuration, logging, telemetry and run history
// around the summary pipeline and exposes them as the genosum command tree.
//
// # Commands
//
//	genosum stages    summarize each stage directory separately
//	genosum overall   summarize all stages merged together
//	genosum history   list runs recorded in the history database
//	genosum version   print version information
//
// Running genosum without a subcommand uses the configured mode.
//
// # Configuration
//
// Settings are layered in increasing precedence: built-in defaults, the
// YAML file given with --config, GENOSUM_* environment variables and
// finally command-line flags. Only flags that were explicitly set
// override the lower layers.
//
// # Error Handling
//
// Errors are returned to the caller; the package never calls os.Exit.
// The main function prints the error and exits with status 1.
package app
