package main

import (
	"log/slog"
	"os"

	"presencecli/internal/app"
	"presencecli/internal/config"
	"presencecli/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	otelCfg := infrastructure.OTelConfigFrom(cfg.Telemetry)
	otelCfg.ServiceVersion = app.Version
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Warn("OpenTelemetry disabled", slog.String("error", err.Error()))
		providers = nil
	}

	application, err := app.NewApplication(cfg, logger, providers)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
