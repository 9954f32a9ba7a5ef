// Package exporter writes rendered attendance tables to files.
//
// CSVWriter writes comma separated output with a UTF-8 BOM so Excel opens
// accented names correctly. XLSXWriter produces a single-sheet workbook with a
// bold, colored and frozen header row and columns sized to their content.
//
// Example usage:
//
//	table := presence.AbsenceTable(records)
//
//	// Stream a workbook to an HTTP response
//	err := exporter.NewXLSXWriter(nil).Write(w, table, exporter.XLSXOptions{
//	    SheetName:   "Absences",
//	    HeaderColor: "#FFD966",
//	})
//
//	// Or write it into the reports directory
//	path, err := exporter.WriteTableFile(paths, "absences.csv", exporter.FormatCSV, table, exporter.XLSXOptions{})
package exporter
