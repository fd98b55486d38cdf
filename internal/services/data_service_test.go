package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomlens/internal/generator"
	"ecomlens/internal/store"
)

type recordingNotifier struct {
	reloads []int
}

func (n *recordingNotifier) NotifyDataReloaded(orders int) {
	n.reloads = append(n.reloads, orders)
}

func smallGenConfig() generator.Config {
	return generator.Config{
		Orders:    200,
		Users:     30,
		Products:  10,
		RangeDays: 40,
		Seed:      42,
		End:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDataServiceReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"order_id,user_id,product_id,quantity,order_date,status,price\n"+
			"O1,U1,P1,1,2025-03-01,completed,100\n"), 0644))

	notifier := &recordingNotifier{}
	svc := NewDataService(store.New(path, nil), notifier, nil)

	result, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Orders)
	assert.False(t, result.ReloadedAt.IsZero())
	assert.Equal(t, []int{1}, notifier.reloads)
}

func TestDataServiceReloadMissingFile(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewDataService(store.New(filepath.Join(t.TempDir(), "nope.csv"), nil), notifier, nil)

	_, err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Empty(t, notifier.reloads)
}

func TestDataServiceGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	s := store.New(path, nil)
	svc := NewDataService(s, nil, nil)

	result, err := svc.Generate(context.Background(), smallGenConfig())
	require.NoError(t, err)
	assert.Equal(t, 200, result.Orders)

	// the ledger is on disk and loadable again
	ds, err := store.LoadOrders(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 200, ds.Len())
}

func TestDataServiceEnsureLoadedGeneratesWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	s := store.New(path, nil)
	svc := NewDataService(s, nil, nil)

	require.NoError(t, svc.EnsureLoaded(context.Background()))

	ds, err := s.Snapshot()
	require.NoError(t, err)
	assert.Greater(t, ds.Len(), 0)
}
