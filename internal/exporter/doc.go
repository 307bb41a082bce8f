// Package exporter turns dashboard views into downloadable sheets.
//
// A Sheet is a header plus rows of cells (strings, numbers or nil for a
// missing value). Sheets are built from analytics results and written as
// CSV (with a UTF-8 BOM so Excel detects the encoding) or as XLSX through
// excelize.
//
// Example usage:
//
//	sheet := exporter.TopNSheet(top)
//	err := exporter.New(logger).Write(w, sheet, exporter.XLSX)
package exporter
