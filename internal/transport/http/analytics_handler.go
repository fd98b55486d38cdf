// Package http exposes the analytics engine over a REST surface mirroring
// the dashboard's needs: KPIs, segmentation, funnel, forecast, rollups and
// rankings, plus data lifecycle and export endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ecomlens/internal/errors"
	"ecomlens/internal/services"
)

// AnalyticsHandler serves the read-only analytics endpoints.
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kpi", h.GetKPI)
	r.Get("/kpi/trend", h.GetTrend)
	r.Get("/rfm", h.GetSegments)
	r.Get("/funnel", h.GetFunnel)
	r.Get("/forecast", h.GetForecast)
	r.Get("/stats/daily", h.GetDaily)
	r.Get("/stats/{dimension}", h.GetDimension)
	r.Get("/top/users", h.GetTopUsers)
	r.Get("/top/products", h.GetTopProducts)
	r.Get("/report", h.GetReport)
}

// GetKPI returns headline metrics, optionally over a filtered sub-ledger.
func (h *AnalyticsHandler) GetKPI(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kpi, err := h.service.KPI(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, kpi)
}

// GetTrend compares the trailing window against the previous one.
func (h *AnalyticsHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err == nil {
		err = checkQuery(trendQuery{Days: days})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	trend, err := h.service.Trend(r.Context(), days)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, trend)
}

// GetSegments returns RFM clusters with labels and per-segment summaries.
func (h *AnalyticsHandler) GetSegments(w http.ResponseWriter, r *http.Request) {
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
	render.JSON(w, r, result)
}

// GetFunnel returns estimated conversion stages.
func (h *AnalyticsHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.Funnel(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stages)
}

// GetForecast returns daily history plus extrapolated points.
func (h *AnalyticsHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err == nil {
		err = checkQuery(forecastQuery{Days: days})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	points, err := h.service.Forecast(r.Context(), days)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, points)
}

// GetDimension rolls the ledger up by the path dimension.
func (h *AnalyticsHandler) GetDimension(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")

	stats, err := h.service.Dimension(r.Context(), dimension)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// GetDaily returns per-day sales and order counts.
func (h *AnalyticsHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err == nil {
		err = checkQuery(dailyQuery{Days: days})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	points, err := h.service.Daily(r.Context(), days)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, points)
}

// GetTopUsers ranks customers by spend.
func (h *AnalyticsHandler) GetTopUsers(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n")
	if err == nil {
		err = checkQuery(topQuery{N: n})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	users, err := h.service.TopUsers(r.Context(), n)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, users)
}

// GetTopProducts ranks products by revenue.
func (h *AnalyticsHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n")
	if err == nil {
		err = checkQuery(topQuery{N: n})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	products, err := h.service.TopProducts(r.Context(), n)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, products)
}

// GetReport returns all analyses in one payload.
func (h *AnalyticsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FullReport(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}
