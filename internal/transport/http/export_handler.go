package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "ecomlens/internal/errors"
	"ecomlens/internal/exporter"
	"ecomlens/internal/services"
)

// ReportNotifier receives an event when a report export completes.
type ReportNotifier interface {
	NotifyReportReady(orders int)
}

// ExportHandler serves downloadable report files.
type ExportHandler struct {
	service      *services.AnalyticsService
	xlsx         *exporter.ReportExporter
	csv          *exporter.CSVWriter
	notifier     ReportNotifier
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler. notifier may be nil.
func NewExportHandler(service *services.AnalyticsService, notifier ReportNotifier, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service:      service,
		xlsx:         exporter.NewReportExporter(),
		csv:          exporter.NewCSVWriter(),
		notifier:     notifier,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the export routes.
func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/export/report", h.DownloadReport)
	r.Get("/export/segments", h.DownloadSegments)
}

// DownloadReport streams the full analytics report as an xlsx workbook.
func (h *ExportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FullReport(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("analytics-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.xlsx.WriteXLSX(w, report); err != nil {
		// headers are already out; log rather than rewrite the response
		h.logger.ErrorContext(r.Context(), "report export failed",
			slog.String("error", err.Error()))
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyReportReady(report.KPI.TotalOrders)
	}
}

// DownloadSegments streams per-customer RFM records as CSV.
func (h *ExportHandler) DownloadSegments(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k")
	if err == nil {
		err = checkQuery(segmentQuery{K: k})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Segments(r.Context(), k)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("rfm-segments-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.csv.WriteSegments(w, result); err != nil {
		h.logger.ErrorContext(r.Context(), "segment export failed",
			slog.String("error", err.Error()))
	}
}
