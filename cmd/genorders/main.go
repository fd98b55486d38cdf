// Command genorders writes a synthetic order ledger CSV for local
// development and demos.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ecomlens/internal/generator"
)

func main() {
	var (
		out      = flag.String("out", "data/orders.csv", "output CSV path")
		orders   = flag.Int("orders", 10000, "number of orders")
		users    = flag.Int("users", 500, "number of distinct customers")
		products = flag.Int("products", 200, "number of distinct products")
		days     = flag.Int("days", 180, "ledger time span in days")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	cfg := generator.Config{
		Orders:    *orders,
		Users:     *users,
		Products:  *products,
		RangeDays: *days,
		Seed:      *seed,
		End:       time.Now(),
	}

	start := time.Now()
	rows := generator.Generate(cfg)
	if err := generator.WriteCSV(*out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write ledger: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d orders to %s in %s\n", len(rows), *out, time.Since(start).Round(time.Millisecond))
}
