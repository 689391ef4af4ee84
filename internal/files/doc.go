// Package files provides directory listing for the stage/sample input tree.
//
// Listings are returned sorted by name so that every run walks stages,
// samples and files in the same order regardless of what the underlying
// filesystem returns.
//
// Example usage:
//
//	discovery := files.NewDiscovery("./grade_generalised")
//
//	stages, err := discovery.ListDirectories(".")
//	for _, stage := range stages {
//	    samples, err := discovery.ListDirectories(stage.Path)
//	    // ...
//	}
package files
