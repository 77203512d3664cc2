// Package exporter serializes dashboard tables.
//
// Every writer takes a domain.Table, so the filtered view, the monthly
// summary and the correlation matrix share one code path:
//
//   - WriteCSV: UTF-8, comma separated, numbers with two decimals, dates as DD/MM/YYYY
//   - WritePDF: A4 tabular document with a repeated header and a diagonal watermark on every page
//   - WriteXLSX: single-sheet workbook with typed cells
//
// Absent values are written as empty cells and an empty table fails with
// domain.ErrEmptyInput. ReadCSV reads a CSV export back for round trips.
//
// Example usage:
//
//	exp := exporter.New(paths, cfg.Export, tel.Metrics, logger)
//	path, err := exp.WriteFile(ctx, domain.ModeDataExport, exporter.FormatCSV, view.Table("Dados"))
//	if errors.Is(err, domain.ErrEmptyInput) {
//	    // nothing to export
//	}
package exporter
