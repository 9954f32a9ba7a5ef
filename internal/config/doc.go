// Package config provides centralized configuration management for the
// attendance report tools. It loads configuration from multiple sources,
// validates it and exposes a typed Config to the web server and the CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml or PRESENCE_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PRESENCE_<SECTION>_<FIELD>:
//
//	PRESENCE_SERVER_PORT=8080
//	PRESENCE_LOGGING_LEVEL=debug
//	PRESENCE_UPLOAD_MAX_BYTES=33554432
//	PRESENCE_UPLOAD_ALLOWED_EXTENSIONS=.xlsx,.xlsm
//	PRESENCE_REPORT_HEADER_COLOR=#FFD966
//	PRESENCE_RATE_LIMIT_RPS=10
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
//
// # Path Management
//
// Paths resolves the reports and logs directories against a base directory,
// which defaults to the directory containing the executable.
package config
