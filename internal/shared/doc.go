// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting
// on log output and builders for in-memory check-in workbooks:
//
//	logger, handler := testutil.NewTestLogger(t)
//	data := testutil.NewWorkbook(t, "Pointage", testutil.CheckinHeader, testutil.CheckinRows())
//
// Only test code imports testutil.
package shared
