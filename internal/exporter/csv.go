package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ecomlens/internal/analytics"
)

// utf8BOM prefixes CSV output so Excel detects the encoding. The source
// ledgers carry localized labels that Excel mangles without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter exports tabular analytics results as CSV.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// NewCSVWriter creates a CSV writer with Excel-friendly defaults.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// WriteSegments exports per-customer RFM records.
func (w *CSVWriter) WriteSegments(out io.Writer, result *analytics.RFMResult) error {
	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(out)
	header := []string{"user_id", "recency", "frequency", "monetary", "cluster", "label", "strategy"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range result.Records {
		row := []string{
			rec.UserID,
			strconv.Itoa(rec.Recency),
			strconv.Itoa(rec.Frequency),
			strconv.FormatFloat(rec.Monetary, 'f', 2, 64),
			strconv.Itoa(rec.Cluster),
			rec.Label,
			rec.Strategy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.UserID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
