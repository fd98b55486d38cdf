package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ecomlens/internal/errors"
	"ecomlens/internal/generator"
	"ecomlens/internal/services"
)

// DataHandler serves ledger lifecycle endpoints.
type DataHandler struct {
	service      *services.DataService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(service *services.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// RegisterRoutes registers the data lifecycle routes.
func (h *DataHandler) RegisterRoutes(r chi.Router) {
	r.Post("/data/reload", h.Reload)
	r.Post("/data/generate", h.Generate)
}

// Reload re-reads the ledger from disk and swaps the snapshot.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "ledger reloaded via API",
		slog.Int("orders", result.Orders))
	render.JSON(w, r, result)
}

// Generate writes a fresh synthetic ledger and loads it.
func (h *DataHandler) Generate(w http.ResponseWriter, r *http.Request) {
	cfg := generator.DefaultConfig()

	orders, err := intParam(r, "orders")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if orders > 0 {
		cfg.Orders = orders
	}

	result, err := h.service.Generate(r.Context(), cfg)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "synthetic ledger generated via API",
		slog.Int("orders", result.Orders))
	render.JSON(w, r, result)
}
