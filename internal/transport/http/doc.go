// Package http implements the HTTP handlers of the report server.
//
// Handlers only deal with HTTP: they decode the multipart upload, hand the
// parsed workbook to the report service and render the result as JSON or as
// a file download. Every failure goes through errors.ErrorHandler and is
// returned as RFC 7807 problem details.
//
// # Endpoints
//
//	POST /api/reports        multipart upload: file, mode, period, format, header_color
//	GET  /api/reports/modes  selector values for mode, period and format
//	GET  /api/health         liveness
//	GET  /api/health/ready   readiness, 503 when the reports directory is unusable
//	GET  /api/version        build information
//
// A JSON report looks like:
//
//	{
//	  "status": "success",
//	  "data": {
//	    "mode": "absences",
//	    "title": "Tableau des Absences",
//	    "columns": ["Nom", "Date"],
//	    "rows": [["Bob", "2024-01-02"]],
//	    "filename": "absences.xlsx"
//	  },
//	  "count": 1
//	}
package http
