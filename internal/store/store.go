// Package store owns the order-ledger snapshot the analytics layer reads
// from. Loading replaces the snapshot atomically under a write lock, so
// in-flight analyses keep the dataset version they started with.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ecomlens/internal/analytics"
)

// ErrNotLoaded is returned by Snapshot before the first successful load.
var ErrNotLoaded = errors.New("order ledger not loaded")

// Store holds the current order-ledger snapshot. Zero value is empty; call
// Reload to populate it.
type Store struct {
	mu       sync.RWMutex
	current  *analytics.Dataset
	loadedAt time.Time

	path   string
	logger *slog.Logger
}

// New creates a store that loads from the given CSV path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Reload loads the ledger from disk and swaps it in as the new snapshot.
// On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (int, error) {
	start := time.Now()

	ds, err := LoadOrders(ctx, s.path)
	if err != nil {
		return 0, fmt.Errorf("reload order ledger: %w", err)
	}

	s.mu.Lock()
	s.current = ds
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "ledger snapshot replaced",
		"orders", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds.Len(), nil
}

// Replace swaps in a prebuilt dataset. Used by tests and by the generator
// path, which builds rows in memory before persisting them.
func (s *Store) Replace(ds *analytics.Dataset) {
	s.mu.Lock()
	s.current = ds
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// Snapshot returns the current dataset. Callers own the returned handle for
// the duration of their analysis; a concurrent reload does not affect it.
func (s *Store) Snapshot() (*analytics.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// LoadedAt reports when the current snapshot was installed.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Path returns the CSV path the store reloads from.
func (s *Store) Path() string {
	return s.path
}
