// Package pipeline runs a summary pass over a base folder of stage
// directories.
//
// A Runner validates its inputs, clears the failed-files log, enumerates
// stages in name order and hands each stage's data to a Strategy. PerStage
// summarizes every stage separately and exports one sheet set per stage;
// Overall merges all stages and exports a single summary. Runs are traced,
// counted in pipeline metrics and, when a history recorder is configured,
// stored with their outcome.
package pipeline
