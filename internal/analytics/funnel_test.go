package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunnelFromCounts(t *testing.T) {
	t.Run("computes stage and overall rates", func(t *testing.T) {
		stages := FunnelFromCounts([]StageCount{
			{Stage: "browse", Count: 1000},
			{Stage: "cart", Count: 200},
			{Stage: "order", Count: 100},
			{Stage: "pay", Count: 80},
		})
		require.Len(t, stages, 4)

		assert.Equal(t, 100.0, stages[0].ConversionRate)
		assert.InDelta(t, 20.0, stages[1].ConversionRate, 1e-9)
		assert.InDelta(t, 50.0, stages[2].ConversionRate, 1e-9)
		assert.InDelta(t, 80.0, stages[3].ConversionRate, 1e-9)
		for _, s := range stages {
			assert.InDelta(t, 8.0, s.OverallRate, 1e-9)
			assert.GreaterOrEqual(t, s.ConversionRate, 0.0)
			assert.LessOrEqual(t, s.ConversionRate, 100.0)
		}
	})

	t.Run("zero predecessor yields zero rate", func(t *testing.T) {
		stages := FunnelFromCounts([]StageCount{
			{Stage: "browse", Count: 0},
			{Stage: "cart", Count: 0},
		})
		assert.Equal(t, 100.0, stages[0].ConversionRate)
		assert.Zero(t, stages[1].ConversionRate)
		assert.Zero(t, stages[0].OverallRate)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, FunnelFromCounts(nil))
	})
}

func TestEstimateFunnel(t *testing.T) {
	on := date(2026, 3, 1)
	orders := makeOrders(100, StatusCompleted, 500, on, "paid")
	orders = append(orders, makeOrders(15, StatusCancelled, 100, on, "cxl")...)

	stages := EstimateFunnel(NewDataset(orders))
	require.Len(t, stages, 4)

	assert.Equal(t, "browse", stages[0].Stage)
	assert.Equal(t, 115*30, stages[0].Count)
	assert.Equal(t, 115*5, stages[1].Count)
	assert.Equal(t, 115, stages[2].Count)
	assert.Equal(t, 100, stages[3].Count)
	assert.Equal(t, 100.0, stages[0].ConversionRate)
}
