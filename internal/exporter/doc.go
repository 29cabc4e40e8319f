// Package exporter provides xlsx export for the single-stock flow.
//
// WriteSelectionWorkbook streams one workbook per selection result: a
// Summary sheet with the combined per-date view, plus one raw sheet per
// discovered strategy file.
package exporter
