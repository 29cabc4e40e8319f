// Package dataprocessing parses and aggregates the CSV files produced by
// the external screening scripts.
//
// The reader is deliberately tolerant: the scripts emit variably shaped
// CSV with a UTF-8 BOM, ragged rows and free-form headers, so records
// are accepted as-is and malformed lines are skipped rather than
// failing the file.
//
// Aggregate is the core of the single-stock flow. It joins any number
// of per-strategy tables by date string, carries market fields through
// verbatim, and computes the per-date position summary with exact
// decimal arithmetic.
package dataprocessing
