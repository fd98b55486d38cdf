package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ecomlens/internal/analytics"
)

// Columns the loader refuses to proceed without. The remaining columns
// (channel, discount, cost, category, amount, profit, city) are optional;
// amount and profit are derived from price/quantity/discount/cost when the
// file does not carry them.
var requiredColumns = []string{
	"order_id", "user_id", "product_id", "quantity", "order_date", "status", "price",
}

var dateFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// LoadOrders reads an order ledger CSV into an immutable dataset. The header
// row maps column names to positions, so column order in the file does not
// matter. Rows that fail to parse or violate row-level invariants are logged
// and skipped; a missing required column fails the whole load.
func LoadOrders(ctx context.Context, csvPath string) (*analytics.Dataset, error) {
	logger := slog.Default()

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open orders CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read orders CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, &analytics.SchemaError{Column: "order_id", Reason: "empty file"}
	}

	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var (
		orders  []analytics.Order
		skipped int
	)
	for i := 1; i < len(records); i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load cancelled: %w", ctx.Err())
		default:
		}

		order, err := parseOrderRecord(records[i], cols, i+1)
		if err != nil {
			logger.Warn("skipping unparseable order row",
				"file", filepath.Base(csvPath),
				"line", i+1,
				"error", err,
			)
			skipped++
			continue
		}
		if !order.IsValid() {
			logger.Warn("skipping order row violating invariants",
				"file", filepath.Base(csvPath),
				"line", i+1,
				"order_id", order.OrderID,
			)
			skipped++
			continue
		}
		orders = append(orders, order)
	}

	logger.InfoContext(ctx, "order ledger loaded",
		"file", filepath.Base(csvPath),
		"orders", len(orders),
		"skipped", skipped,
	)
	return analytics.NewDataset(orders), nil
}

// mapHeader builds a column-name to index map and verifies required columns.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &analytics.SchemaError{Column: name, Reason: "column missing from header"}
		}
	}
	return cols, nil
}

func parseOrderRecord(record []string, cols map[string]int, lineNum int) (analytics.Order, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	orderID := field("order_id")
	if orderID == "" {
		return analytics.Order{}, fmt.Errorf("empty order_id (line %d)", lineNum)
	}

	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return analytics.Order{}, fmt.Errorf("parse quantity (line %d): %w", lineNum, err)
	}

	orderDate, err := parseDate(field("order_date"))
	if err != nil {
		return analytics.Order{}, fmt.Errorf("parse order_date (line %d): %w", lineNum, err)
	}

	price, err := parseFloat(field("price"), "price", lineNum)
	if err != nil {
		return analytics.Order{}, err
	}

	discount, err := optionalFloat(field("discount"), "discount", lineNum)
	if err != nil {
		return analytics.Order{}, err
	}
	cost, err := optionalFloat(field("cost"), "cost", lineNum)
	if err != nil {
		return analytics.Order{}, err
	}

	order := analytics.Order{
		OrderID:   orderID,
		UserID:    field("user_id"),
		ProductID: field("product_id"),
		Quantity:  quantity,
		OrderDate: orderDate,
		Status:    analytics.ParseStatus(field("status")),
		Channel:   field("channel"),
		Discount:  discount,
		Price:     price,
		Cost:      cost,
		Category:  field("category"),
		City:      field("city"),
	}

	// amount and profit follow the generator's formulas when the file omits
	// them: amount = price*qty*(1-discount), profit shaves cost off price.
	if raw := field("amount"); raw != "" {
		order.Amount, err = parseFloat(raw, "amount", lineNum)
		if err != nil {
			return analytics.Order{}, err
		}
	} else {
		order.Amount = price * float64(quantity) * (1 - discount)
	}
	if raw := field("profit"); raw != "" {
		order.Profit, err = parseFloat(raw, "profit", lineNum)
		if err != nil {
			return analytics.Order{}, err
		}
	} else {
		order.Profit = (price - cost) * float64(quantity) * (1 - discount)
	}

	return order, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", raw)
}

func parseFloat(raw, name string, lineNum int) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s (line %d): %w", name, lineNum, err)
	}
	return v, nil
}

func optionalFloat(raw, name string, lineNum int) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return parseFloat(raw, name, lineNum)
}
