// Package shared holds code used across packages that belongs to no single
// layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured log output
//	- SampleTree for writing stage/sample fixture folders
//	- CNV and MAF content builders in the layout of GDC downloads
//
// testutil is imported only from _test.go files.
package shared
