// Package services contains the business logic of the screener: the
// orchestration between script execution, file discovery, CSV parsing
// and aggregation.
//
// SelectionService runs the single-stock flow: optionally invoke the
// selection script for an identifier, discover the per-strategy CSV
// files it wrote, and fold them into one per-date summary.
//
// BatchService runs the multi-file flow: optionally invoke the batch
// screening script, then read the five fixed stage files it maintains.
// The stage set is closed; a missing or headerless file halts the
// response rather than rendering a partial set.
//
// Both services treat script failures as informational. The captured
// output, exit code and timeout flag travel with the response so the
// caller can display them; only filesystem problems on the service's
// own directories are errors.
package services
