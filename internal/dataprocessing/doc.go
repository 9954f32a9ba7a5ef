// Package dataprocessing reads check-in workbooks into presence datasets.
//
// The parser is deliberately loose about layout: it takes the first non-empty
// row of the chosen worksheet as the header, pads short rows and drops
// trailing blank ones. Column names are not checked here; the presence
// transformations reject inputs without the columns they need.
//
// Usage:
//
//	ds, err := dataprocessing.ParseFile("pointage.xlsx", dataprocessing.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	records, err := presence.SummarizeAttendance(ds)
//
// Errors opening or reading the workbook are *errors.AppError values of type
// PARSING, or STORAGE when the file itself cannot be opened.
package dataprocessing
