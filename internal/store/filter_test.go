package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomlens/internal/analytics"
)

func filterLedger() *analytics.Dataset {
	mar := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	return analytics.NewDataset([]analytics.Order{
		{OrderID: "O1", UserID: "U1", Quantity: 1, OrderDate: mar(1), Status: analytics.StatusCompleted, Channel: "app", Category: "electronics", City: "Beijing", Amount: 100},
		{OrderID: "O2", UserID: "U2", Quantity: 1, OrderDate: mar(5), Status: analytics.StatusRefunded, Channel: "web", Category: "apparel", City: "Shanghai", Amount: 50},
		{OrderID: "O3", UserID: "U1", Quantity: 1, OrderDate: mar(10), Status: analytics.StatusCompleted, Channel: "app", Category: "apparel", City: "Beijing", Amount: 70},
	})
}

func TestFilterZeroMatchesAll(t *testing.T) {
	ds := filterLedger()

	out, err := OrderFilter{}.Apply(ds)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), out.Len())
}

func TestFilterByFields(t *testing.T) {
	ds := filterLedger()

	tests := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"status", OrderFilter{Status: "completed"}, []string{"O1", "O3"}},
		{"status alias", OrderFilter{Status: "已完成"}, []string{"O1", "O3"}},
		{"channel case-insensitive", OrderFilter{Channel: "WEB"}, []string{"O2"}},
		{"category", OrderFilter{Category: "apparel"}, []string{"O2", "O3"}},
		{"city", OrderFilter{City: "Beijing"}, []string{"O1", "O3"}},
		{"date range", OrderFilter{
			From: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		}, []string{"O2"}},
		{"combined", OrderFilter{Status: "completed", Category: "apparel"}, []string{"O3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.filter.Apply(ds)
			require.NoError(t, err)

			var ids []string
			for _, o := range out.Orders() {
				ids = append(ids, o.OrderID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterValidation(t *testing.T) {
	ds := filterLedger()

	_, err := OrderFilter{Status: "teleported"}.Apply(ds)
	var paramErr *analytics.InvalidParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "status", paramErr.Param)

	_, err = OrderFilter{
		From: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}.Apply(ds)
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "to", paramErr.Param)
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	ds := filterLedger()
	_, err := OrderFilter{City: "Beijing"}.Apply(ds)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}
