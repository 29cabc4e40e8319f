// Package files provides file system discovery for the screener service.
//
// Discovery locates the CSV files the external screening scripts write:
// per-strategy selection files matching an identifier prefix, and the
// fixed result files of the batch flow. All lookups go through the two
// configured output directories.
//
// Example usage:
//
//	discovery := files.NewDiscovery(selectionDir, resultsDir)
//
//	// Find every strategy file for one identifier
//	found, err := discovery.FindStrategyFiles("600519")
//
//	// Check a fixed batch result file
//	info, err := discovery.StatResultFile("data1.csv")
package files
