package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomlens/internal/analytics"
	"ecomlens/internal/config"
	"ecomlens/internal/store"
)

func serviceDefaults() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		Clusters:     2,
		TrendDays:    7,
		ForecastDays: 7,
		TopN:         5,
		DailyDays:    30,
	}
}

// serviceLedger builds a ledger wide enough for every analysis: 8 customers
// across two spend tiers, 30 days of history.
func serviceLedger() *analytics.Dataset {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var orders []analytics.Order
	id := 0
	add := func(user string, dayOffset int, amount float64, category string) {
		id++
		orders = append(orders, analytics.Order{
			OrderID:   "O" + strconv.Itoa(id),
			UserID:    user,
			ProductID: "P1",
			Quantity:  1,
			OrderDate: base.AddDate(0, 0, dayOffset),
			Status:    analytics.StatusCompleted,
			Channel:   "app",
			Category:  category,
			City:      "Beijing",
			Amount:    amount,
			Profit:    amount * 0.3,
		})
	}
	for day := 0; day < 30; day++ {
		add("whale1", day, 500, "electronics")
		add("whale2", day, 450, "electronics")
	}
	for _, u := range []string{"small1", "small2", "small3", "small4", "small5", "small6"} {
		add(u, 5, 30, "apparel")
		add(u, 20, 40, "apparel")
	}
	return analytics.NewDataset(orders)
}

func newTestService(t *testing.T) *AnalyticsService {
	t.Helper()
	s := store.New("unused.csv", nil)
	s.Replace(serviceLedger())
	return NewAnalyticsService(s, serviceDefaults(), nil)
}

func TestAnalyticsServiceNotLoaded(t *testing.T) {
	svc := NewAnalyticsService(store.New("unused.csv", nil), serviceDefaults(), nil)

	_, err := svc.KPI(context.Background(), store.OrderFilter{})
	assert.ErrorIs(t, err, store.ErrNotLoaded)

	_, err = svc.FullReport(context.Background())
	assert.ErrorIs(t, err, store.ErrNotLoaded)
}

func TestAnalyticsServiceKPIWithFilter(t *testing.T) {
	svc := newTestService(t)

	all, err := svc.KPI(context.Background(), store.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 72, all.TotalOrders)

	apparel, err := svc.KPI(context.Background(), store.OrderFilter{Category: "apparel"})
	require.NoError(t, err)
	assert.Equal(t, 12, apparel.TotalOrders)
}

func TestAnalyticsServiceDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	segments, err := svc.Segments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, segments.Summaries, 2)

	forecast, err := svc.Forecast(ctx, 0)
	require.NoError(t, err)
	var future int
	for _, p := range forecast {
		if p.Kind == analytics.PointForecast {
			future++
		}
	}
	assert.Equal(t, 7, future)

	top, err := svc.TopUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 5)
	assert.Equal(t, "whale1", top[0].UserID)
}

func TestAnalyticsServiceDimensionRejectsUnknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Dimension(context.Background(), "shoe_size")
	var schemaErr *analytics.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestFullReport(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.FullReport(context.Background())
	require.NoError(t, err)

	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 72, report.KPI.TotalOrders)
	assert.Len(t, report.Segments.Summaries, 2)
	assert.Len(t, report.Funnel, 4)
	assert.NotEmpty(t, report.Forecast)
	assert.NotEmpty(t, report.Categories)
	assert.NotEmpty(t, report.Channels)
	assert.NotEmpty(t, report.Cities)
	assert.Len(t, report.TopUsers, 5)
	assert.NotEmpty(t, report.TopProducts)

	// whales dominate spend, so the top segment is the high-value one
	assert.Equal(t, "high-value", report.Segments.Summaries[0].Label)
}
