// Command web runs the order-ledger analytics service.
package main

import (
	"context"
	"fmt"
	"os"

	"ecomlens/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("service exited with error", "error", err)
		os.Exit(1)
	}
}
