package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedLedger builds completed orders spread across categories with known
// totals.
func mixedLedger() []Order {
	on := date(2026, 3, 1)
	var orders []Order
	add := func(n int, category, channel, city string, amount float64, prefix string) {
		for i := 0; i < n; i++ {
			orders = append(orders, Order{
				OrderID:   fmt.Sprintf("%s-%03d", prefix, i),
				UserID:    fmt.Sprintf("u-%s-%03d", prefix, i%4),
				ProductID: fmt.Sprintf("p-%s", prefix),
				Quantity:  2,
				OrderDate: on,
				Status:    StatusCompleted,
				Channel:   channel,
				Category:  category,
				Amount:    amount,
				Profit:    amount * 0.25,
				City:      city,
			})
		}
	}
	add(6, "electronics", "live", "berlin", 300, "el")
	add(3, "apparel", "search", "hamburg", 200, "ap")
	add(1, "home", "search", "berlin", 400, "ho")
	orders = append(orders, makeOrders(4, StatusRefunded, 999, on, "ref")...)
	return orders
}

func TestByDimension(t *testing.T) {
	t.Run("category rollup", func(t *testing.T) {
		stats, err := ByDimension(NewDataset(mixedLedger()), DimensionCategory)
		require.NoError(t, err)
		require.Len(t, stats, 3)

		// Sorted descending by GMV: electronics 1800, apparel 600, home 400.
		assert.Equal(t, "electronics", stats[0].Key)
		assert.InDelta(t, 1800.0, stats[0].GMV, 1e-9)
		assert.Equal(t, 6, stats[0].Orders)
		assert.Equal(t, 4, stats[0].Customers)
		assert.InDelta(t, 300.0, stats[0].AOV, 1e-9)

		assert.Equal(t, "apparel", stats[1].Key)
		assert.Equal(t, "home", stats[2].Key)

		share := 0.0
		for _, s := range stats {
			share += s.GMVShare
		}
		assert.InDelta(t, 100.0, share, 0.1)
	})

	t.Run("refunded orders excluded", func(t *testing.T) {
		stats, err := ByDimension(NewDataset(mixedLedger()), DimensionCity)
		require.NoError(t, err)
		total := 0.0
		for _, s := range stats {
			total += s.GMV
		}
		assert.InDelta(t, 2800.0, total, 1e-9)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := ByDimension(NewDataset(nil), Dimension("gender"))
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "gender", schemaErr.Column)
	})
}

func TestTopUsers(t *testing.T) {
	t.Run("ranks by spend with ascending id tie-break", func(t *testing.T) {
		on := date(2026, 3, 1)
		orders := []Order{
			{OrderID: "o1", UserID: "carol", Quantity: 1, OrderDate: on, Status: StatusCompleted, Amount: 500},
			{OrderID: "o2", UserID: "bob", Quantity: 1, OrderDate: on, Status: StatusCompleted, Amount: 300},
			{OrderID: "o3", UserID: "alice", Quantity: 1, OrderDate: on, Status: StatusCompleted, Amount: 300},
			{OrderID: "o4", UserID: "dave", Quantity: 1, OrderDate: on, Status: StatusCancelled, Amount: 900},
		}
		users, err := TopUsers(NewDataset(orders), 10)
		require.NoError(t, err)
		require.Len(t, users, 3)

		assert.Equal(t, "carol", users[0].UserID)
		assert.Equal(t, "alice", users[1].UserID) // tie with bob, ascending id
		assert.Equal(t, "bob", users[2].UserID)
	})

	t.Run("truncates to n", func(t *testing.T) {
		users, err := TopUsers(NewDataset(mixedLedger()), 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("n out of range", func(t *testing.T) {
		for _, n := range []int{0, 101} {
			_, err := TopUsers(NewDataset(nil), n)
			var paramErr *InvalidParameterError
			require.ErrorAs(t, err, &paramErr, "n=%d", n)
		}
	})
}

func TestTopProducts(t *testing.T) {
	on := date(2026, 3, 1)
	orders := []Order{
		{OrderID: "o1", UserID: "u1", ProductID: "p-b", Quantity: 3, OrderDate: on, Status: StatusCompleted, Amount: 600},
		{OrderID: "o2", UserID: "u2", ProductID: "p-a", Quantity: 1, OrderDate: on, Status: StatusCompleted, Amount: 200},
		{OrderID: "o3", UserID: "u3", ProductID: "p-b", Quantity: 2, OrderDate: on, Status: StatusCompleted, Amount: 400},
	}
	products, err := TopProducts(NewDataset(orders), 10)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p-b", products[0].ProductID)
	assert.InDelta(t, 1000.0, products[0].Revenue, 1e-9)
	assert.Equal(t, 5, products[0].Quantity)
	assert.Equal(t, 2, products[0].Orders)
}

func TestDailyStats(t *testing.T) {
	t.Run("restricts to window", func(t *testing.T) {
		var orders []Order
		orders = append(orders, makeOrders(1, StatusCompleted, 100, date(2026, 3, 1), "old")...)
		orders = append(orders, makeOrders(1, StatusCompleted, 100, date(2026, 3, 20), "new")...)

		points, err := DailyStats(NewDataset(orders), 7)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, date(2026, 3, 20), points[0].Date)
	})

	t.Run("days out of range", func(t *testing.T) {
		_, err := DailyStats(NewDataset(nil), 0)
		var paramErr *InvalidParameterError
		require.ErrorAs(t, err, &paramErr)
	})
}
