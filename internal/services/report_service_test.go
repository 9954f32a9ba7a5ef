package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apierrors "presencecli/internal/errors"
	"presencecli/internal/exporter"
	"presencecli/internal/infrastructure"
	"presencecli/internal/presence"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestService(t *testing.T) *ReportService {
	t.Helper()
	svc, err := NewReportService(quietLogger(), nil)
	require.NoError(t, err)
	return svc
}

func checkins() *presence.Dataset {
	return presence.NewDataset([]string{"Nom", "Heure"}, [][]string{
		{"Alice", "2024-01-01 08:00:00"},
		{"Alice", "2024-01-01 17:00:00"},
		{"Bob", "2024-01-02 09:00:00"},
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"Présences", ModePresences},
		{"presences", ModePresences},
		{"PRESENCES", ModePresences},
		{" Absences ", ModeAbsences},
		{"Rapport par période", ModeRapport},
		{"rapport par periode", ModeRapport},
		{"rapport", ModeRapport},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("retards")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name         string
		req          ReportRequest
		wantTitle    string
		wantFilename string
		wantColumns  []string
		wantRows     [][]string
	}{
		{
			name:         "presences",
			req:          ReportRequest{Mode: "Présences"},
			wantTitle:    "Tableau des Présences",
			wantFilename: "presences.xlsx",
			wantColumns:  []string{"Date", "Nom", "Heure d'arrive et de sortie"},
			wantRows: [][]string{
				{"2024-01-01", "Alice", "08:00:00 - 17:00:00"},
				{"2024-01-02", "Bob", "09:00:00 - 09:00:00"},
			},
		},
		{
			name:         "absences as csv",
			req:          ReportRequest{Mode: "absences", Format: "csv"},
			wantTitle:    "Tableau des Absences",
			wantFilename: "absences.csv",
			wantColumns:  []string{"Nom", "Date"},
			wantRows: [][]string{
				{"Alice", "2024-01-02"},
				{"Bob", "2024-01-01"},
			},
		},
		{
			name:         "rapport by day",
			req:          ReportRequest{Mode: "Rapport par période", Period: "Jour", Format: "json"},
			wantTitle:    "Rapport de Présences par Jour",
			wantFilename: "rapport_Jour.xlsx",
			wantColumns:  []string{"Jour", "Nombre de présences"},
			wantRows: [][]string{
				{"2024-01-01", "2"},
				{"2024-01-02", "1"},
			},
		},
		{
			name:         "rapport by week in english",
			req:          ReportRequest{Mode: "rapport", Period: "week"},
			wantTitle:    "Rapport de Présences par Semaine",
			wantFilename: "rapport_Semaine.xlsx",
			wantColumns:  []string{"Semaine", "Nombre de présences"},
			wantRows:     [][]string{{"1", "3"}},
		},
	}

	svc := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Generate(context.Background(), tt.req, checkins())
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, report.Title)
			assert.Equal(t, tt.wantFilename, report.Filename)
			assert.Equal(t, tt.wantColumns, report.Table.Columns)
			assert.Equal(t, tt.wantRows, report.Table.Rows)
		})
	}
}

func TestGenerateRejects(t *testing.T) {
	tests := []struct {
		name  string
		req   ReportRequest
		ds    *presence.Dataset
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown mode",
			req:  ReportRequest{Mode: "retards"},
			ds:   checkins(),
			check: func(t *testing.T, err error) {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			},
		},
		{
			name: "rapport without period",
			req:  ReportRequest{Mode: "rapport"},
			ds:   checkins(),
			check: func(t *testing.T, err error) {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				details := apiErr.Details.([]apierrors.ValidationError)
				assert.Equal(t, "period", details[0].Field)
			},
		},
		{
			name: "unknown period",
			req:  ReportRequest{Mode: "rapport", Period: "Décennie"},
			ds:   checkins(),
			check: func(t *testing.T, err error) {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				details := apiErr.Details.([]apierrors.ValidationError)
				assert.Equal(t, "period", details[0].Field)
			},
		},
		{
			name: "bad header color and format",
			req:  ReportRequest{Mode: "absences", Format: "pdf", HeaderColor: "blue"},
			ds:   checkins(),
			check: func(t *testing.T, err error) {
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Len(t, apiErr.Details, 2)
			},
		},
		{
			name: "missing columns",
			req:  ReportRequest{Mode: "presences"},
			ds:   presence.NewDataset([]string{"Date", "Badge"}, [][]string{{"2024-01-01", "1"}}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, presence.ErrMissingColumn)
			},
		},
		{
			name: "unparseable timestamp",
			req:  ReportRequest{Mode: "absences"},
			ds: presence.NewDataset([]string{"Nom", "Heure"}, [][]string{
				{"Alice", "2024-01-01 08:00:00"},
				{"Bob", "hier"},
			}),
			check: func(t *testing.T, err error) {
				var tsErr *presence.UnparseableTimestampError
				require.True(t, errors.As(err, &tsErr))
				assert.Equal(t, 2, tsErr.Row)
			},
		},
	}

	svc := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Generate(context.Background(), tt.req, tt.ds)
			require.Error(t, err)
			assert.Nil(t, report)
			tt.check(t, err)
		})
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t).Generate(ctx, ReportRequest{Mode: "presences"}, checkins())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateEmptyDataset(t *testing.T) {
	svc := newTestService(t)
	ds := presence.NewDataset([]string{"Nom", "Heure"}, nil)

	for _, mode := range Modes() {
		report, err := svc.Generate(context.Background(), ReportRequest{Mode: string(mode), Period: "Mois"}, ds)
		require.NoError(t, err, mode)
		assert.Zero(t, report.Table.Len())
		assert.NotNil(t, report.Table.Rows)
	}
}

func TestGenerateAll(t *testing.T) {
	reports, err := newTestService(t).GenerateAll(context.Background(), checkins(), exporter.FormatCSV, "#FFD966")
	require.NoError(t, err)
	require.Len(t, reports, 7)

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Filename
		assert.Equal(t, "#FFD966", r.HeaderColor)
	}
	assert.Equal(t, []string{
		"presences.csv", "absences.csv",
		"rapport_Jour.csv", "rapport_Semaine.csv", "rapport_Mois.csv",
		"rapport_Trimestre.csv", "rapport_Année.csv",
	}, names)
}

func TestGenerateAllStopsOnError(t *testing.T) {
	ds := presence.NewDataset([]string{"Nom"}, [][]string{{"Alice"}})
	reports, err := newTestService(t).GenerateAll(context.Background(), ds, exporter.FormatXLSX, "")
	assert.ErrorIs(t, err, presence.ErrMissingColumn)
	assert.Nil(t, reports)
}

func TestGenerateTracesAndCounts(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	svc, err := NewReportService(quietLogger(), &infrastructure.OTelProviders{
		Tracer: tp.Tracer("test"),
		Meter:  mp.Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Generate(ctx, ReportRequest{Mode: "presences"}, checkins())
	require.NoError(t, err)
	_, err = svc.Generate(ctx, ReportRequest{Mode: "nope"}, checkins())
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "report.generate", ended[0].Name())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	counters := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					counters[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), counters["reports_generated_total"])
	assert.Equal(t, int64(1), counters["report_errors_total"])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "presences.xlsx", Filename(ModePresences, 0, ""))
	assert.Equal(t, "absences.csv", Filename(ModeAbsences, 0, exporter.FormatCSV))
	assert.Equal(t, "rapport_Trimestre.xlsx", Filename(ModeRapport, presence.PeriodQuarter, exporter.FormatXLSX))
}

func TestReportSheetName(t *testing.T) {
	r := &Report{Mode: ModeRapport, Period: presence.PeriodYear}
	assert.Equal(t, "Rapport Année", r.SheetName())
	assert.Equal(t, "Présences", (&Report{Mode: ModePresences}).SheetName())
}
