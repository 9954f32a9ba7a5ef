// Package app assembles the report web server.
//
// NewApplication takes a loaded configuration, a logger and the OpenTelemetry
// providers, builds the services and the chi router, and prepares an
// http.Server. Run serves until SIGINT or SIGTERM and then shuts down
// gracefully, flushing telemetry.
//
// Every request goes through RequestID, RealIP and the security headers.
// Routes under /api additionally get tracing, access logging, panic
// recovery, the optional rate limiter and a per-group timeout. Unknown
// routes and methods are answered with RFC 7807 problem details. /metrics
// exposes the Prometheus registry when metrics are enabled.
package app
