package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ecomlens/internal/analytics"
)

var csvHeader = []string{
	"order_id", "user_id", "product_id", "quantity", "order_date", "status",
	"channel", "discount", "price", "cost", "category", "amount", "profit", "city",
}

// WriteCSV persists a generated ledger in the schema the store loads.
// The write goes through a temp file and rename, so a reload racing the
// write never sees a half-written ledger.
func WriteCSV(path string, orders []analytics.Order) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "orders-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, o := range orders {
		record := []string{
			o.OrderID,
			o.UserID,
			o.ProductID,
			strconv.Itoa(o.Quantity),
			o.OrderDate.Format("2006-01-02 15:04:05"),
			o.Status.String(),
			o.Channel,
			formatFloat(o.Discount),
			formatFloat(o.Price),
			formatFloat(o.Cost),
			o.Category,
			formatFloat(o.Amount),
			formatFloat(o.Profit),
			o.City,
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install ledger: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
