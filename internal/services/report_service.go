package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apierrors "presencecli/internal/errors"
	"presencecli/internal/exporter"
	"presencecli/internal/infrastructure"
	"presencecli/internal/presence"
	"presencecli/internal/validation"
)

// Mode selects which report is produced from a check-in sheet.
type Mode string

const (
	ModePresences Mode = "presences"
	ModeAbsences  Mode = "absences"
	ModeRapport   Mode = "rapport"
)

var modeLabels = map[Mode]string{
	ModePresences: "Présences",
	ModeAbsences:  "Absences",
	ModeRapport:   "Rapport par période",
}

// Modes returns every report mode in display order.
func Modes() []Mode {
	return []Mode{ModePresences, ModeAbsences, ModeRapport}
}

// Label returns the French display name.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMode accepts a slug or a display name, ignoring case and accents.
func ParseMode(s string) (Mode, error) {
	key := presence.NormalizeLabel(s)
	for _, m := range Modes() {
		if key == string(m) || key == presence.NormalizeLabel(m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported report mode %q", s)
}

// Format values accepted in a ReportRequest.
const (
	FormatJSON = "json"
	FormatXLSX = string(exporter.FormatXLSX)
	FormatCSV  = string(exporter.FormatCSV)
)

// ReportRequest describes the report a user asked for.
type ReportRequest struct {
	Mode        string `json:"mode" validate:"required,report_mode"`
	Period      string `json:"period" validate:"omitempty,report_period"`
	Format      string `json:"format" validate:"omitempty,oneof=json xlsx csv"`
	HeaderColor string `json:"header_color" validate:"omitempty,hexcolor"`
}

// Report is a generated report ready to be rendered or exported.
type Report struct {
	Mode     Mode            `json:"mode"`
	Period   presence.Period `json:"-"`
	Title    string          `json:"title"`
	Table    *presence.Table `json:"-"`
	Filename string          `json:"filename"`
	// Format is the download format; empty for JSON responses.
	Format exporter.Format `json:"-"`
	// HeaderColor is the validated header fill for xlsx output.
	HeaderColor string `json:"-"`
}

// SheetName returns the worksheet name used when the report is exported.
func (r *Report) SheetName() string {
	if r.Mode == ModeRapport {
		return "Rapport " + r.Period.Label()
	}
	return r.Mode.Label()
}

// XLSXOptions returns the workbook layout for this report.
func (r *Report) XLSXOptions() exporter.XLSXOptions {
	return exporter.XLSXOptions{SheetName: r.SheetName(), HeaderColor: r.HeaderColor}
}

// Titles shown above each table.
const (
	TitlePresences = "Tableau des Présences"
	TitleAbsences  = "Tableau des Absences"
	titleRapport   = "Rapport de Présences par %s"
)

// ReportService turns parsed check-in datasets into reports.
type ReportService struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.ReportMetrics
	validator *validation.StructValidator
}

// NewReportService creates a report service. With nil providers the global
// OpenTelemetry tracer and meter are used.
func NewReportService(logger *slog.Logger, providers *infrastructure.OTelProviders) (*ReportService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tracer := otel.Tracer(infrastructure.InstrumentationName)
	meter := otel.Meter(infrastructure.InstrumentationName)
	if providers != nil {
		if providers.Tracer != nil {
			tracer = providers.Tracer
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.NewReportMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	v := validation.NewStructValidator()
	if err := v.RegisterValidation("report_mode", func(s string) bool {
		_, err := ParseMode(s)
		return err == nil
	}, "%s must be one of: Présences, Absences, Rapport par période"); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("report_period", func(s string) bool {
		_, err := presence.ParsePeriod(s)
		return err == nil
	}, "%s must be one of: Jour, Semaine, Mois, Trimestre, Année"); err != nil {
		return nil, err
	}

	return &ReportService{
		logger:    logger.With(slog.String("component", "report_service")),
		tracer:    tracer,
		metrics:   metrics,
		validator: v,
	}, nil
}

// Validate checks a request without generating anything.
func (s *ReportService) Validate(req ReportRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	mode, _ := ParseMode(req.Mode)
	if mode == ModeRapport && strings.TrimSpace(req.Period) == "" {
		return apierrors.ErrValidation("period", "period is required for Rapport par période")
	}
	return nil
}

// Generate validates req and builds the requested report from ds. No report
// is returned when the request or the dataset is invalid.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest, ds *presence.Dataset) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(
			attribute.String("report.mode", req.Mode),
			attribute.String("report.period", req.Period),
			attribute.Int("report.input_rows", ds.Len()),
		))
	defer span.End()

	start := time.Now()
	report, err := s.generate(ctx, req, ds)

	mode := req.Mode
	rows := 0
	if report != nil {
		mode = string(report.Mode)
		rows = report.Table.Len()
	}
	s.metrics.RecordReport(ctx, mode, ds.Len(), rows, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "report rejected",
			slog.String("mode", req.Mode),
			slog.String("period", req.Period),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("report.rows", rows))
	s.logger.InfoContext(ctx, "report generated",
		slog.String("mode", string(report.Mode)),
		slog.String("title", report.Title),
		slog.Int("input_rows", ds.Len()),
		slog.Int("rows", rows),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

func (s *ReportService) generate(ctx context.Context, req ReportRequest, ds *presence.Dataset) (*Report, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode, _ := ParseMode(req.Mode)
	report := &Report{
		Mode:        mode,
		HeaderColor: req.HeaderColor,
	}
	if req.Format != "" && req.Format != FormatJSON {
		report.Format = exporter.Format(req.Format)
	}

	switch mode {
	case ModePresences:
		records, err := presence.SummarizeAttendance(ds)
		if err != nil {
			return nil, err
		}
		report.Title = TitlePresences
		report.Table = presence.AttendanceTable(records)
	case ModeAbsences:
		records, err := presence.DetectAbsences(ds)
		if err != nil {
			return nil, err
		}
		report.Title = TitleAbsences
		report.Table = presence.AbsenceTable(records)
	case ModeRapport:
		period, err := presence.ParsePeriod(req.Period)
		if err != nil {
			return nil, err
		}
		buckets, err := presence.AggregateByPeriod(ds, period)
		if err != nil {
			return nil, err
		}
		report.Period = period
		report.Title = fmt.Sprintf(titleRapport, period.Label())
		report.Table = presence.PeriodTable(period, buckets)
	}

	report.Filename = Filename(report.Mode, report.Period, report.Format)
	return report, nil
}

// GenerateAll builds the presences, absences and every period report
// concurrently. Results keep that order; the first error cancels the rest.
func (s *ReportService) GenerateAll(ctx context.Context, ds *presence.Dataset, format exporter.Format, headerColor string) ([]*Report, error) {
	requests := []ReportRequest{
		{Mode: string(ModePresences)},
		{Mode: string(ModeAbsences)},
	}
	for _, p := range presence.Periods() {
		requests = append(requests, ReportRequest{Mode: string(ModeRapport), Period: p.String()})
	}

	reports := make([]*Report, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		req.Format = string(format)
		req.HeaderColor = headerColor
		g.Go(func() error {
			r, err := s.Generate(gctx, req, ds)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Filename returns the download name: presences.xlsx, absences.xlsx or
// rapport_<period>.xlsx, with the csv extension for csv output.
func Filename(mode Mode, period presence.Period, format exporter.Format) string {
	if format == "" {
		format = exporter.FormatXLSX
	}
	base := string(mode)
	if mode == ModeRapport {
		base = "rapport_" + period.Label()
	}
	return base + format.Extension()
}
