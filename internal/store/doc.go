// Package store keeps the history of summary runs in a SQLite database:
// one row per run with its counters, the files it skipped, and every summary
// table it produced.
package store
