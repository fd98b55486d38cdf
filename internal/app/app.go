// Package app wires configuration, logging, observability, the ledger store
// and the HTTP surface into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ecomlens/internal/config"
	"ecomlens/internal/infrastructure"
	"ecomlens/internal/services"
	"ecomlens/internal/store"
	transport "ecomlens/internal/transport/http"
	"ecomlens/internal/websocket"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application holds the assembled service.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Store     *store.Store
	Analytics *services.AnalyticsService
	Data      *services.DataService
	Hub       *websocket.Hub
	Server    *http.Server
}

// New loads configuration and builds every component. Nothing is started
// yet; call Run.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize observability: %w", err)
	}

	ledger := store.New(cfg.OrdersPath(), logger)
	hub := websocket.NewHub(logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Providers: providers,
		Store:     ledger,
		Analytics: services.NewAnalyticsService(ledger, cfg.Analytics, logger),
		Data:      services.NewDataService(ledger, hub, logger),
		Hub:       hub,
	}

	router := transport.NewRouter(transport.RouterDeps{
		Config:    cfg,
		Logger:    logger,
		Providers: providers,
		Store:     ledger,
		Analytics: app.Analytics,
		Data:      app.Data,
		Hub:       hub,
		Version:   Version,
	})

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// Run loads the ledger, starts the hub and the HTTP server, and blocks until
// the context is cancelled or a termination signal arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Data.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	a.Hub.Start()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version),
		)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	return a.Stop(context.Background())
}

// Stop shuts the server, hub and observability providers down gracefully.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		firstErr = fmt.Errorf("http shutdown: %w", err)
	}

	a.Hub.Stop()

	if a.Providers != nil {
		if err := a.Providers.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("otel shutdown: %w", err)
		}
	}

	infrastructure.CloseLogFile()
	return firstErr
}
