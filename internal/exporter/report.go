// Package exporter renders analytics results as downloadable files: a
// multi-sheet Excel workbook for the full report and BOM-prefixed CSV for
// per-customer segment data.
package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"ecomlens/internal/analytics"
	"ecomlens/internal/services"
)

// ReportExporter writes a full analytics report as an Excel workbook.
type ReportExporter struct{}

// NewReportExporter creates a report exporter.
func NewReportExporter() *ReportExporter {
	return &ReportExporter{}
}

// WriteXLSX renders the report into an xlsx workbook on w.
func (e *ReportExporter) WriteXLSX(w io.Writer, report *services.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeKPISheet(f, report); err != nil {
		return err
	}
	if err := e.writeSegmentSheet(f, report.Segments); err != nil {
		return err
	}
	if err := e.writeFunnelSheet(f, report.Funnel); err != nil {
		return err
	}
	if err := e.writeForecastSheet(f, report.Forecast); err != nil {
		return err
	}
	for _, dim := range []struct {
		sheet string
		stats []analytics.DimensionStat
	}{
		{"Categories", report.Categories},
		{"Channels", report.Channels},
		{"Cities", report.Cities},
	} {
		if err := e.writeDimensionSheet(f, dim.sheet, dim.stats); err != nil {
			return err
		}
	}
	if err := e.writeTopSheet(f, report); err != nil {
		return err
	}

	// drop the default sheet excelize creates
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newSheet(f *excelize.File, name string, headers []string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("write header %s on %s: %w", h, name, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

func (e *ReportExporter) writeKPISheet(f *excelize.File, report *services.Report) error {
	const sheet = "KPI"
	if err := newSheet(f, sheet, []string{"Metric", "Value"}); err != nil {
		return err
	}

	rows := [][]any{
		{"Generated At", report.GeneratedAt.Format(time.RFC3339)},
		{"GMV", report.KPI.GMV},
		{"Total Orders", report.KPI.TotalOrders},
		{"Paid Orders", report.KPI.PaidOrders},
		{"Refund Rate", report.KPI.RefundRate},
		{"AOV", report.KPI.AOV},
		{"Profit", report.KPI.Profit},
		{"Unique Users", report.KPI.UniqueUsers},
		{"Repeat Rate", report.KPI.RepeatRate},
		{"Recent GMV", report.Trend.RecentGMV},
		{"Previous GMV", report.Trend.PreviousGMV},
		{"GMV Change", report.Trend.GMVChange},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 18)
}

func (e *ReportExporter) writeSegmentSheet(f *excelize.File, result *analytics.RFMResult) error {
	const sheet = "Segments"
	if err := newSheet(f, sheet, []string{
		"Segment", "Customers", "Share %", "Avg Recency", "Avg Frequency", "Avg Monetary", "Strategy",
	}); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	for i, s := range result.Summaries {
		row := []any{
			s.Label, s.Customers, s.Share, s.AvgRecency, s.AvgFrequency, s.AvgMonetary,
			analytics.StrategyFor(s.Label),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "G", 16)
}

func (e *ReportExporter) writeFunnelSheet(f *excelize.File, stages []analytics.FunnelStage) error {
	const sheet = "Funnel"
	if err := newSheet(f, sheet, []string{"Stage", "Count", "Conversion %", "Overall %"}); err != nil {
		return err
	}
	for i, s := range stages {
		if err := setRow(f, sheet, i+2, []any{s.Stage, s.Count, s.ConversionRate, s.OverallRate}); err != nil {
			return err
		}
	}
	return nil
}

func (e *ReportExporter) writeForecastSheet(f *excelize.File, points []analytics.DailyPoint) error {
	const sheet = "Forecast"
	if err := newSheet(f, sheet, []string{"Date", "Sales", "Orders", "Kind"}); err != nil {
		return err
	}
	for i, p := range points {
		row := []any{p.Date.Format("2006-01-02"), p.Sales, p.Orders, string(p.Kind)}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ReportExporter) writeDimensionSheet(f *excelize.File, sheet string, stats []analytics.DimensionStat) error {
	if err := newSheet(f, sheet, []string{"Value", "Orders", "GMV", "Profit", "Customers", "AOV", "GMV Share %"}); err != nil {
		return err
	}
	for i, s := range stats {
		row := []any{s.Key, s.Orders, s.GMV, s.Profit, s.Customers, s.AOV, s.GMVShare}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ReportExporter) writeTopSheet(f *excelize.File, report *services.Report) error {
	const sheet = "Top"
	if err := newSheet(f, sheet, []string{"User", "Spend", "Orders", "Last Purchase"}); err != nil {
		return err
	}
	row := 2
	for _, u := range report.TopUsers {
		values := []any{u.UserID, u.Spend, u.Orders, u.LastOrder.Format("2006-01-02")}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	row += 2
	if err := setRow(f, sheet, row, []any{"Product", "Sales", "Quantity", "Orders"}); err != nil {
		return err
	}
	row++
	for _, p := range report.TopProducts {
		if err := setRow(f, sheet, row, []any{p.ProductID, p.Revenue, p.Quantity, p.Orders}); err != nil {
			return err
		}
		row++
	}
	return nil
}
