package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ecomlens/internal/generator"
	"ecomlens/internal/store"
)

// Notifier receives data-lifecycle events. The websocket hub implements it;
// a nil notifier disables notifications.
type Notifier interface {
	NotifyDataReloaded(orders int)
}

// DataService orchestrates ledger lifecycle: reloads from disk and synthetic
// regeneration for demo environments.
type DataService struct {
	store    *store.Store
	notifier Notifier
	logger   *slog.Logger
}

// NewDataService creates a data service over the given store.
func NewDataService(s *store.Store, notifier Notifier, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:    s,
		notifier: notifier,
		logger:   logger.With(slog.String("service", "data")),
	}
}

// ReloadResult reports the outcome of a reload or regeneration.
type ReloadResult struct {
	Orders     int       `json:"orders"`
	ReloadedAt time.Time `json:"reloaded_at"`
}

// Reload re-reads the ledger CSV and swaps in the new snapshot.
func (s *DataService) Reload(ctx context.Context) (ReloadResult, error) {
	n, err := s.store.Reload(ctx)
	if err != nil {
		return ReloadResult{}, err
	}
	if s.notifier != nil {
		s.notifier.NotifyDataReloaded(n)
	}
	return ReloadResult{Orders: n, ReloadedAt: s.store.LoadedAt()}, nil
}

// Generate writes a fresh synthetic ledger to the store's CSV path and loads
// it. Used to bootstrap demo environments that have no data yet.
func (s *DataService) Generate(ctx context.Context, cfg generator.Config) (ReloadResult, error) {
	start := time.Now()

	orders := generator.Generate(cfg)
	if err := generator.WriteCSV(s.store.Path(), orders); err != nil {
		return ReloadResult{}, fmt.Errorf("persist generated ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "synthetic ledger generated",
		slog.Int("orders", len(orders)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return s.Reload(ctx)
}

// EnsureLoaded loads the ledger at startup, generating a synthetic one when
// the CSV does not exist yet.
func (s *DataService) EnsureLoaded(ctx context.Context) error {
	if _, err := s.store.Reload(ctx); err == nil {
		return nil
	}

	s.logger.InfoContext(ctx, "no ledger on disk, generating synthetic data",
		slog.String("path", s.store.Path()),
	)
	_, err := s.Generate(ctx, generator.DefaultConfig())
	return err
}
