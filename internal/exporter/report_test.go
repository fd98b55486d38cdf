package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecomlens/internal/analytics"
	"ecomlens/internal/services"
)

func sampleReport() *services.Report {
	return &services.Report{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		KPI: analytics.KPI{
			GMV: 10000, TotalOrders: 120, PaidOrders: 100, RefundRate: 0.05,
			AOV: 100, Profit: 3000, UniqueUsers: 60, RepeatRate: 0.4,
		},
		Trend: analytics.KPITrend{RecentGMV: 5500, PreviousGMV: 5000, GMVChange: 10},
		Segments: &analytics.RFMResult{
			Records: []analytics.RFMRecord{
				{UserID: "U1", Recency: 3, Frequency: 9, Monetary: 2500, Cluster: 0, Label: "high-value", Strategy: analytics.StrategyFor("high-value")},
			},
			Summaries: []analytics.SegmentSummary{
				{Label: "high-value", Customers: 10, AvgRecency: 4, AvgFrequency: 8, AvgMonetary: 2000, Share: 25},
				{Label: "at-risk", Customers: 30, AvgRecency: 80, AvgFrequency: 1, AvgMonetary: 90, Share: 75},
			},
		},
		Funnel: []analytics.FunnelStage{
			{Stage: "browse", Count: 3000, ConversionRate: 100, OverallRate: 3.33},
			{Stage: "pay", Count: 100, ConversionRate: 20, OverallRate: 3.33},
		},
		Forecast: []analytics.DailyPoint{
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Sales: 420, Orders: 4, Kind: analytics.PointForecast},
		},
		Categories:  []analytics.DimensionStat{{Key: "electronics", Orders: 50, GMV: 8000, Profit: 2400, Customers: 40, AOV: 160, GMVShare: 80}},
		Channels:    []analytics.DimensionStat{{Key: "live", Orders: 70, GMV: 6000}},
		Cities:      []analytics.DimensionStat{{Key: "Beijing", Orders: 30, GMV: 3000}},
		TopUsers:    []analytics.TopUser{{UserID: "U1", Spend: 2500, Orders: 9, LastOrder: time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)}},
		TopProducts: []analytics.TopProduct{{ProductID: "P7", Revenue: 1800, Quantity: 21, Orders: 18}},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReportExporter().WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"KPI", "Segments", "Funnel", "Forecast", "Categories", "Channels", "Cities", "Top"} {
		assert.Contains(t, sheets, want)
	}
	assert.NotContains(t, sheets, "Sheet1")

	generatedAt, err := f.GetCellValue("KPI", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", generatedAt)

	label, err := f.GetCellValue("Segments", "A2")
	require.NoError(t, err)
	assert.Equal(t, "high-value", label)

	forecastKind, err := f.GetCellValue("Forecast", "D2")
	require.NoError(t, err)
	assert.Equal(t, string(analytics.PointForecast), forecastKind)

	topUser, err := f.GetCellValue("Top", "A2")
	require.NoError(t, err)
	assert.Equal(t, "U1", topUser)
}

func TestWriteSegmentsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().WriteSegments(&buf, sampleReport().Segments))

	raw := buf.Bytes()
	assert.Equal(t, utf8BOM, raw[:3])

	body := string(raw[3:])
	assert.Contains(t, body, "user_id,recency,frequency,monetary,cluster,label,strategy")
	assert.Contains(t, body, "U1,3,9,2500.00,0,high-value")
}

func TestWriteSegmentsCSVWithoutBOM(t *testing.T) {
	w := &CSVWriter{BOMPrefix: false}
	var buf bytes.Buffer
	require.NoError(t, w.WriteSegments(&buf, &analytics.RFMResult{}))
	assert.NotEqual(t, utf8BOM, buf.Bytes()[:3])
}
