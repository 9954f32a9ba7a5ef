// Package services implements the application layer between the HTTP
// handlers or the CLI and the pure attendance transformations.
//
// ReportService validates a ReportRequest, runs the matching transformation
// from package presence and returns a Report carrying its title, table and
// download file name. Every generation is traced and counted through
// OpenTelemetry and logged with slog.
//
//	svc, err := services.NewReportService(logger, providers)
//	report, err := svc.Generate(ctx, services.ReportRequest{
//	    Mode:   "Rapport par période",
//	    Period: "Semaine",
//	}, dataset)
//
// HealthService answers liveness and readiness checks.
package services
