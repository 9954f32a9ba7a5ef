package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"presencecli/internal/config"
	"presencecli/internal/dataprocessing"
	apierrors "presencecli/internal/errors"
	"presencecli/internal/exporter"
	"presencecli/internal/infrastructure"
	"presencecli/internal/presence"
	"presencecli/internal/services"
	"presencecli/internal/validation"
)

const modeAll = "all"

type options struct {
	in     string
	sheet  string
	mode   string
	period string
	out    string
	format string
	color  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code. Written report
// paths go to stdout, logs and the user-facing error message to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("presence", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.in, "in", "", "check-in workbook (.xlsx) to read")
	fs.StringVar(&opts.sheet, "sheet", cfg.Report.SheetName, "worksheet to read (defaults to the first sheet)")
	fs.StringVar(&opts.mode, "mode", string(services.ModePresences), "report to build: presences, absences, rapport or all")
	fs.StringVar(&opts.period, "period", "", "period for the rapport mode: Jour, Semaine, Mois, Trimestre or Année")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to the configured reports directory)")
	fs.StringVar(&opts.format, "format", string(exporter.FormatXLSX), "output format: xlsx or csv")
	fs.StringVar(&opts.color, "color", cfg.Report.HeaderColor, "header fill color for xlsx output, as #RRGGBB")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := infrastructure.NewLogger(cfg.Logging, stderr)
	logger = infrastructure.WithComponent(logger, "cli")

	if opts.in == "" {
		fmt.Fprintln(stderr, "missing -in: a check-in workbook is required")
		fs.Usage()
		return 2
	}

	paths, err := outputPaths(cfg, opts.out)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	// Every log line of this run shares one trace ID.
	ctx = infrastructure.EnsureTraceID(ctx)
	written, err := generate(ctx, opts, paths, logger)
	if err != nil {
		logger.ErrorContext(ctx, "report generation failed", slog.String("error", err.Error()))
		fmt.Fprintln(stderr, userMessage(err))
		return 1
	}

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return 0
}

func outputPaths(cfg *config.Config, out string) (*config.Paths, error) {
	if out != "" {
		return config.NewPaths(out, "", ""), nil
	}
	return cfg.ResolvePaths()
}

// generate parses the workbook, builds the requested reports and writes them
// into the reports directory. It returns the written paths in report order.
func generate(ctx context.Context, opts options, paths *config.Paths, logger *slog.Logger) ([]string, error) {
	files := validation.NewFileValidator(logger)
	if err := files.ValidateExcelFile(opts.in); err != nil {
		return nil, err
	}
	if err := files.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return nil, err
	}

	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	ds, err := dataprocessing.ParseFile(opts.in, dataprocessing.ParseOptions{
		SheetName: opts.sheet,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	svc, err := services.NewReportService(logger, nil)
	if err != nil {
		return nil, err
	}

	var reports []*services.Report
	if opts.mode == modeAll {
		reports, err = svc.GenerateAll(ctx, ds, format, opts.color)
	} else {
		var report *services.Report
		report, err = svc.Generate(ctx, services.ReportRequest{
			Mode:        opts.mode,
			Period:      opts.period,
			Format:      string(format),
			HeaderColor: opts.color,
		}, ds)
		reports = []*services.Report{report}
	}
	if err != nil {
		return nil, err
	}

	written := make([]string, len(reports))
	g, gctx := errgroup.WithContext(ctx)
	for i, report := range reports {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := exporter.WriteTableFile(paths, report.Filename, format, report.Table, report.XLSXOptions())
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", report.Filename, err)
			}
			logger.InfoContext(gctx, "report written",
				slog.String("mode", string(report.Mode)),
				slog.String("path", path),
				slog.Int("rows", report.Table.Len()))
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	var missing *presence.MissingColumnError
	if errors.As(err, &missing) {
		return missing.UserMessage()
	}
	var unparseable *presence.UnparseableTimestampError
	if errors.As(err, &unparseable) {
		return fmt.Sprintf("Horodatage illisible ligne %d, colonne '%s' : %q", unparseable.Row, unparseable.Column, unparseable.Value)
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.([]apierrors.ValidationError); ok && len(details) > 0 {
			msgs := make([]string, len(details))
			for i, d := range details {
				msgs[i] = d.Message
			}
			return "error: " + strings.Join(msgs, "; ")
		}
	}
	return "error: " + err.Error()
}
