package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"presencecli/internal/dataprocessing"
	apierrors "presencecli/internal/errors"
	"presencecli/internal/exporter"
	"presencecli/internal/middleware"
	"presencecli/internal/presence"
	"presencecli/internal/services"
	"presencecli/internal/validation"
)

// multipartMemory is kept in memory before parts spill to temp files.
const multipartMemory = 8 << 20

// ReportGenerator is the part of services.ReportService the handler needs.
type ReportGenerator interface {
	Validate(req services.ReportRequest) error
	Generate(ctx context.Context, req services.ReportRequest, ds *presence.Dataset) (*services.Report, error)
}

// ReportHandlerConfig carries the upload settings.
type ReportHandlerConfig struct {
	// SheetName is the worksheet read from uploads; empty means the first.
	SheetName string
	// HeaderColor is used when a request does not pick one.
	HeaderColor    string
	MaxUploadBytes int64
}

// ReportHandler serves report generation over HTTP.
type ReportHandler struct {
	service      ReportGenerator
	files        *validation.FileValidator
	cfg          ReportHandlerConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportGenerator, files *validation.FileValidator, cfg ReportHandlerConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		files:        files,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes, mounted under /api/reports.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/modes", h.ListModes)

	r.With(
		middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"),
		middleware.MaxBodySize(h.cfg.MaxUploadBytes, h.errorHandler),
	).Post("/", h.CreateReport)

	return r
}

// ModeOption describes one entry of the mode selector.
type ModeOption struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	RequiresPeriod bool   `json:"requires_period"`
}

// PeriodOption describes one entry of the period selector.
type PeriodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ModesResponse lists what CreateReport accepts.
type ModesResponse struct {
	Modes   []ModeOption   `json:"modes"`
	Periods []PeriodOption `json:"periods"`
	Formats []string       `json:"formats"`
}

// ListModes handles GET /api/reports/modes
func (h *ReportHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	resp := ModesResponse{
		Formats: []string{services.FormatJSON, services.FormatXLSX, services.FormatCSV},
	}
	for _, m := range services.Modes() {
		resp.Modes = append(resp.Modes, ModeOption{
			Value:          string(m),
			Label:          m.Label(),
			RequiresPeriod: m == services.ModeRapport,
		})
	}
	for _, p := range presence.Periods() {
		resp.Periods = append(resp.Periods, PeriodOption{Value: p.Label(), Label: p.Label()})
	}
	render.JSON(w, r, resp)
}

// ReportData is the JSON body of a generated report.
type ReportData struct {
	Mode     string     `json:"mode"`
	Period   string     `json:"period,omitempty"`
	Title    string     `json:"title"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Filename string     `json:"filename"`
}

// ReportResponse wraps ReportData with the row count.
type ReportResponse struct {
	Status string     `json:"status"`
	Data   ReportData `json:"data"`
	Count  int        `json:"count"`
}

// CreateReport handles POST /api/reports.
//
// The multipart form carries the workbook in "file" and the request fields
// mode, period, format and header_color. JSON is returned unless format is
// xlsx or csv, in which case the report is sent as an attachment.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := services.ReportRequest{
		Mode:        r.FormValue("mode"),
		Period:      r.FormValue("period"),
		Format:      strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
		HeaderColor: r.FormValue("header_color"),
	}
	if req.HeaderColor == "" {
		req.HeaderColor = h.cfg.HeaderColor
	}
	if err := h.service.Validate(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer file.Close()

	if err := h.files.ValidateWorkbookName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusUnsupportedMediaType,
			apierrors.ErrUnsupportedMedia.ErrorCode,
			apierrors.ErrUnsupportedMedia.Message,
			map[string]interface{}{
				"filename": header.Filename,
				"allowed":  h.files.AllowedExtensions(),
			},
		))
		return
	}

	h.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("mode", req.Mode),
		slog.String("period", req.Period))

	ds, err := dataprocessing.ParseReader(file, dataprocessing.ParseOptions{
		SheetName: h.cfg.SheetName,
		Logger:    h.logger,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Generate(ctx, req, ds)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if report.Format == "" {
		h.renderJSON(w, r, report)
		return
	}
	h.sendFile(w, r, report)
}

func (h *ReportHandler) renderJSON(w http.ResponseWriter, r *http.Request, report *services.Report) {
	data := ReportData{
		Mode:     string(report.Mode),
		Title:    report.Title,
		Columns:  report.Table.Columns,
		Rows:     report.Table.Rows,
		Filename: report.Filename,
	}
	if report.Mode == services.ModeRapport {
		data.Period = report.Period.Label()
	}
	render.JSON(w, r, ReportResponse{
		Status: "success",
		Data:   data,
		Count:  report.Table.Len(),
	})
}

func (h *ReportHandler) sendFile(w http.ResponseWriter, r *http.Request, report *services.Report) {
	var buf bytes.Buffer
	if err := exporter.WriteTable(&buf, report.Format, report.Table, report.XLSXOptions()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.Format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.Filename,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to send report",
			slog.String("filename", report.Filename),
			slog.String("error", err.Error()))
	}
}
