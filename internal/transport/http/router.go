package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecomlens/internal/config"
	"ecomlens/internal/errors"
	"ecomlens/internal/infrastructure"
	custommw "ecomlens/internal/middleware"
	"ecomlens/internal/services"
	"ecomlens/internal/store"
	"ecomlens/internal/websocket"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Store     *store.Store
	Analytics *services.AnalyticsService
	Data      *services.DataService
	Hub       *websocket.Hub
	Version   string
}

// NewRouter assembles the middleware chain and mounts all endpoints.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	if deps.Providers != nil {
		r.Use(custommw.Metrics(deps.Providers))
	}
	if deps.Config != nil {
		r.Use(custommw.Timeout(deps.Config.Server.WriteTimeout, logger))
		if deps.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins: deps.Config.Security.AllowedOrigins,
			}))
		}
		if deps.Config.Security.RateLimit.Enabled {
			limiter := custommw.NewRateLimiter(
				deps.Config.Security.RateLimit.RPS,
				deps.Config.Security.RateLimit.Burst,
				logger,
			)
			r.Use(limiter.Handler)
		}
	}

	errorHandler := errors.NewErrorHandler(logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(deps.Store, deps.Version)
	r.Get("/healthz", health.Healthz)

	if deps.Providers != nil && deps.Providers.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", deps.Providers.PrometheusHTTP)
	}

	if deps.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	var reportNotifier ReportNotifier
	if deps.Hub != nil {
		reportNotifier = deps.Hub
	}

	r.Route("/api", func(api chi.Router) {
		NewAnalyticsHandler(deps.Analytics, logger).RegisterRoutes(api)
		NewDataHandler(deps.Data, logger).RegisterRoutes(api)
		NewExportHandler(deps.Analytics, reportNotifier, logger).RegisterRoutes(api)
	})

	return r
}
